// Package toyrobot wires configuration, tracing and storage around the robot
// runner for the toyrobot command.
package toyrobot

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"toyrobot/internal/journal"
	"toyrobot/internal/platform/config"
	"toyrobot/internal/platform/otel"
	"toyrobot/internal/robot"
	"toyrobot/internal/sim"
)

const (
	serviceName              = "toyrobot"
	stdinSource              = "-"
	telemetryShutdownTimeout = 5 * time.Second
)

// Config holds toyrobot command configuration.
type Config struct {
	CommandsFile string   `env:"TOYROBOT_COMMANDS_FILE" envDefault:"commands.txt"`
	GridSize     int      `env:"TOYROBOT_GRID_SIZE"     envDefault:"5"`
	Headings     []string `env:"TOYROBOT_HEADINGS"      envDefault:"EAST,NORTH,WEST,SOUTH" envSeparator:","`
	JournalPath  string   `env:"TOYROBOT_JOURNAL"`
	Verbose      bool     `env:"TOYROBOT_VERBOSE"`
	Draw         bool     `env:"TOYROBOT_DRAW"`
}

// ParseConfig loads env defaults and then applies flags.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	if fs == nil {
		return Config{}, errors.New("flag set is required")
	}
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Headings = splitList(strings.Join(cfg.Headings, ","))

	fs.StringVar(&cfg.CommandsFile, "commands", cfg.CommandsFile, "command script to run (- for stdin)")
	fs.IntVar(&cfg.GridSize, "grid-size", cfg.GridSize, "side length of the square table")
	fs.Func("headings", "comma-separated headings in counterclockwise order", func(v string) error {
		cfg.Headings = splitList(v)
		return nil
	})
	fs.StringVar(&cfg.JournalPath, "journal", cfg.JournalPath, "sqlite file to record the run in")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "log ignored and rejected commands")
	fs.BoolVar(&cfg.Draw, "draw", cfg.Draw, "draw the table after the run")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 && fs.Arg(0) != "" {
		cfg.CommandsFile = fs.Arg(0)
	}
	return cfg, nil
}

// Run executes the toyrobot command. Reports go to out, diagnostics to errOut.
func Run(ctx context.Context, cfg Config, stdin io.Reader, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if strings.TrimSpace(cfg.CommandsFile) == "" {
		return errors.New("commands file is required")
	}

	grid, err := robot.NewGrid(cfg.GridSize)
	if err != nil {
		return err
	}
	ring, err := robot.RingFromNames(cfg.Headings)
	if err != nil {
		return fmt.Errorf("headings: %w", err)
	}

	shutdown, err := otel.Setup(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	logger := log.New(errOut, "", 0)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), telemetryShutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Printf("%s otel shutdown: %v", serviceName, err)
		}
	}()

	script, closeScript, err := openScript(cfg.CommandsFile, stdin)
	if err != nil {
		return err
	}
	defer closeScript()

	rb := robot.New(grid, ring)
	runCfg := sim.Config{Verbose: cfg.Verbose, Logger: logger}

	if cfg.JournalPath != "" {
		store, err := journal.Open(cfg.JournalPath)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer store.Close()
		runID, err := store.StartRun(ctx, journal.Run{Source: cfg.CommandsFile, GridSize: grid.Size()})
		if err != nil {
			return err
		}
		runCfg.Recorder = store.Recorder(runID)
		if cfg.Verbose {
			logger.Printf("journal run %d in %s", runID, cfg.JournalPath)
		}
	}

	if _, err := sim.NewRunner(rb, runCfg).Run(ctx, script, out); err != nil {
		return err
	}
	if cfg.Draw {
		return sim.Draw(out, rb)
	}
	return nil
}

func openScript(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == stdinSource {
		if stdin == nil {
			return nil, nil, errors.New("stdin is not available")
		}
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open commands: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func splitList(v string) []string {
	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
