package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ducka/go-kayak-animals/host"
	"github.com/ducka/go-kayak-animals/instrumentation"
	"github.com/ducka/go-kayak-animals/schedulers"
	"github.com/ducka/go-kayak-animals/screen"
)

// Config holds the values of the root command's flags.
type Config struct {
	Workers       int
	LogLevel      string
	LogFormat     string
	TeardownAfter time.Duration
}

var errInvalidWorkers = errors.New("--workers must be at least 1")

func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stderr).ExecuteContext(ctx)
}

// NewRootCommand builds the animals command. Log lines are written to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	cfg := &Config{}
	var logger instrumentation.Logger

	root := &cobra.Command{
		Use:           "animals",
		Short:         "Run the animals screen through one lifecycle",
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Workers < 1 {
				return errInvalidWorkers
			}
			if cfg.TeardownAfter < 0 {
				return fmt.Errorf("--teardown-after must not be negative, got %s", cfg.TeardownAfter)
			}

			level, err := instrumentation.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}

			l, err := instrumentation.NewTextLogger(out, cfg.LogFormat, level)
			if err != nil {
				return err
			}
			logger = l
			instrumentation.SetLogger(l)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg, logger)
		},
	}

	root.Flags().IntVar(&cfg.Workers, "workers", schedulers.DefaultIOPoolSize, "size of the worker pool animals are produced on")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", "debug", "log level (debug|info|warn|error)")
	root.Flags().StringVar(&cfg.LogFormat, "log-format", "text", "log format (text|json)")
	root.Flags().DurationVar(&cfg.TeardownAfter, "teardown-after", 0, "destroy the screen after this long; 0 waits for the subscription to finish")

	return root
}

func run(ctx context.Context, cfg *Config, logger instrumentation.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	ui := schedulers.NewLoop("ui")
	defer ui.Close()
	worker := schedulers.NewWorkerPool("io", cfg.Workers)
	defer worker.Close()

	s := screen.NewAnimalsScreen(
		screen.WithWorker(worker),
		screen.WithUI(ui),
		screen.WithLogger(logger),
	)
	h := host.New(ui, host.WithLogger(logger))

	if err := h.Launch(s); err != nil {
		return err
	}

	if cfg.TeardownAfter > 0 {
		timer := time.NewTimer(cfg.TeardownAfter)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
		}
	} else {
		select {
		case <-s.Done():
		case <-ctx.Done():
		}
	}

	return h.Destroy()
}
