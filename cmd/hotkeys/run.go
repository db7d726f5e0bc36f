package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/hotkeys/internal/app"
	"github.com/dshills/hotkeys/internal/config"
)

type runFlags struct {
	mode    string
	watch   bool
	timeout time.Duration
	noQuit  bool
}

func newRunCmd(root *rootFlags) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Listen for hotkeys and run their actions",
		Long: `Run registers every binding of the keymap and listens for key events.

In a terminal, keys are read with tcell and ctrl+c quits. When stdin is not
a terminal the bindings are registered headless and run waits for a signal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("watch") {
				cfg.Keymap.Watch = flags.watch
			}
			if cmd.Flags().Changed("sequence-timeout") {
				cfg.Hotkeys.SequenceTimeout = config.Duration(flags.timeout)
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			mode, err := app.ParseMode(flags.mode)
			if err != nil {
				return err
			}
			mode = app.ResolveMode(mode)

			logger, err := runLogger(cfg, mode)
			if err != nil {
				return err
			}
			defer logger.Sync()

			application, err := app.New(cfg, app.Options{
				Mode:           mode,
				Logger:         logger,
				DisableQuitKey: flags.noQuit,
			})
			if err != nil {
				return err
			}
			defer application.Shutdown()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return application.Run(ctx)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.mode, "mode", "auto", "event source: auto, terminal or headless")
	f.BoolVarP(&flags.watch, "watch", "w", false, "reload the keymap when it changes")
	f.DurationVar(&flags.timeout, "sequence-timeout", time.Second, "default time allowed between sequence steps")
	f.BoolVar(&flags.noQuit, "no-quit-key", false, "do not bind ctrl+c to quit")
	return cmd
}

// runLogger builds the logger. The terminal owns the screen, so without a
// log file terminal mode logs nothing.
func runLogger(cfg *config.Config, mode app.Mode) (*zap.Logger, error) {
	if mode == app.ModeTerminal && cfg.Log.File == "" {
		return zap.NewNop(), nil
	}
	logger, err := app.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
