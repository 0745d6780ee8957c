package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-boids-steering/internal/observability"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/world"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	v := viper.New()
	cmd := &cobra.Command{
		Use:          "boids",
		Short:        "Steer a flock with the mouse. P pauses, R restarts, H hides the panel.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v)
		},
	}

	defaults := world.DefaultHostConfig()
	f := cmd.Flags()
	f.StringP("config", "c", "", "simulation config file (JSON)")
	f.String("flavor", simulation.FlavorClassic, "preset used without a config file: classic | survival")
	f.Int("initial-agents", defaults.InitialAgents, "agents spawned at start")
	f.Int("per-wave", defaults.PerWave, "agents spawned per wave")
	f.Duration("wave-interval", defaults.WaveInterval, "simulated time between waves")
	f.Uint64("seed", defaults.Seed, "spawner random seed")
	f.String("log-level", "info", "debug | info | warn | error")
	f.String("log-file", "", "also log to this rotating file")
	_ = v.BindPFlags(f)
	v.SetEnvPrefix("FLOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, v *viper.Viper) error {
	logCfg := observability.DefaultLoggerConfig()
	logCfg.Name = "boids"
	logCfg.Level = v.GetString("log-level")
	logCfg.File = v.GetString("log-file")
	logger, err := observability.NewLogger(logCfg)
	if err != nil {
		return err
	}
	defer observability.Sync(logger)
	log := logger.Sugar()

	var cfg *simulation.Config
	if file := v.GetString("config"); file != "" {
		cfg, err = simulation.LoadConfig(file, "")
	} else {
		cfg, err = simulation.PresetConfig(v.GetString("flavor"))
	}
	if err != nil {
		return err
	}

	hostCfg := world.DefaultHostConfig()
	hostCfg.InitialAgents = v.GetInt("initial-agents")
	hostCfg.PerWave = v.GetInt("per-wave")
	hostCfg.WaveInterval = v.GetDuration("wave-interval")
	hostCfg.Seed = v.GetUint64("seed")

	host, err := world.NewHost(ctx, cfg, hostCfg, world.WithLogger(log))
	if err != nil {
		return err
	}
	defer func() {
		if err := host.Stop(context.Background()); err != nil {
			log.Warnf("stopping host: %v", err)
		}
	}()

	ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
	ebiten.SetWindowTitle("Boids: " + cfg.Flavor)
	return ebiten.RunGame(NewGame(ctx, host, *cfg, log))
}
