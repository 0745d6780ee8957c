package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lao-tseu-is-alive/go-boids-steering/internal/observability"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids-steering/pkg/world"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const envPrefix = "FLOCK"

var errNoFrame = errors.New("world stopped answering")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(viper.New()).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd returns the headless runner, every flag can also be set as FLOCK_<FLAG>.
func newRootCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "simulation",
		Short:         "Run the flock headless for a number of ticks and print the final state.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v, cmd.OutOrStdout())
		},
	}

	defaults := world.DefaultHostConfig()
	logDefaults := observability.DefaultLoggerConfig()

	f := cmd.Flags()
	f.StringP("config", "c", "", "simulation config file (JSON)")
	f.String("schema", "", "JSON schema for the config file (default: embedded)")
	f.String("flavor", simulation.FlavorClassic, "preset used without a config file: classic | survival")
	f.Int("ticks", 600, "number of ticks to run")
	f.Duration("dt", time.Second/60, "simulated time per tick")
	f.Int("workers", 1, "goroutines computing forces")
	f.String("index", simulation.IndexBruteForce, "neighbour index: bruteforce | grid")
	f.Int("initial-agents", defaults.InitialAgents, "agents spawned at start")
	f.Int("per-wave", defaults.PerWave, "agents spawned per wave")
	f.Duration("wave-interval", defaults.WaveInterval, "simulated time between waves, 0 disables waves")
	f.Uint64("seed", defaults.Seed, "spawner random seed")
	f.Bool("json", false, "print the final frame as JSON")
	f.String("log-level", logDefaults.Level, "debug | info | warn | error")
	f.String("log-format", logDefaults.Format, "console | json")
	f.String("log-file", "", "also log to this rotating file")

	_ = v.BindPFlags(f)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return cmd
}

func run(ctx context.Context, v *viper.Viper, out io.Writer) error {
	logCfg := observability.DefaultLoggerConfig()
	logCfg.Level = v.GetString("log-level")
	logCfg.Format = v.GetString("log-format")
	logCfg.File = v.GetString("log-file")
	logger, err := observability.NewLogger(logCfg)
	if err != nil {
		return err
	}
	defer observability.Sync(logger)

	cfg, err := loadSimulationConfig(v)
	if err != nil {
		return err
	}
	hostCfg := world.DefaultHostConfig()
	hostCfg.InitialAgents = v.GetInt("initial-agents")
	hostCfg.PerWave = v.GetInt("per-wave")
	hostCfg.WaveInterval = v.GetDuration("wave-interval")
	hostCfg.Seed = v.GetUint64("seed")

	log := logger.Sugar()
	h, err := world.NewHost(ctx, cfg, hostCfg, world.WithLogger(log))
	if err != nil {
		return err
	}
	defer func() {
		if err := h.Stop(context.Background()); err != nil {
			log.Warnf("stopping host: %v", err)
		}
	}()

	ticks := v.GetInt("ticks")
	dt := v.GetDuration("dt")
	start := time.Now()

	frame, err := waitFrame(ctx, h)
	if err != nil {
		return err
	}
	for i := 0; i < ticks; i++ {
		if err := h.Tick(ctx, dt); err != nil {
			return fmt.Errorf("tick %d: %w", i, err)
		}
		if frame, err = waitFrame(ctx, h); err != nil {
			return err
		}
	}
	logger.Info("run finished",
		zap.Uint64("tick", frame.Tick),
		zap.Int("agents", len(frame.Agents)),
		zap.Int("wave", frame.Wave),
		zap.Duration("wall", time.Since(start)))

	if v.GetBool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(frame)
	}
	_, err = fmt.Fprintf(out, "tick %d, %d agents, wave %d, %.2fs simulated\n",
		frame.Tick, len(frame.Agents), frame.Wave, frame.Elapsed)
	return err
}

// loadSimulationConfig reads the config file when given, otherwise starts from the flavor preset.
// Explicit flags and environment variables win over both.
func loadSimulationConfig(v *viper.Viper) (*simulation.Config, error) {
	var (
		cfg *simulation.Config
		err error
	)
	if file := v.GetString("config"); file != "" {
		cfg, err = simulation.LoadConfig(file, v.GetString("schema"))
	} else {
		cfg, err = simulation.PresetConfig(v.GetString("flavor"))
	}
	if err != nil {
		return nil, err
	}
	if v.IsSet("workers") {
		cfg.Workers = v.GetInt("workers")
	}
	if v.IsSet("index") {
		cfg.NeighborIndex = v.GetString("index")
	}
	return cfg, cfg.Validate()
}

func waitFrame(ctx context.Context, h *world.Host) (*world.Frame, error) {
	select {
	case f := <-h.Frames():
		return f, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Second):
		return nil, errNoFrame
	}
}
