package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/hotkeys/internal/config"
)

// rootFlags are shared by every command.
type rootFlags struct {
	configPath string
	keymapPath string
	logLevel   string
	platform   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "hotkeys",
		Short:         "Bind key combinations and sequences to actions",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "config file (default $HOTKEYS_CONFIG or the user config dir)")
	pf.StringVarP(&flags.keymapPath, "keymap", "k", "", "keymap file (.toml, .yaml, .yml or .json)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&flags.platform, "platform", "", "modifier platform: auto, mac or other")

	cmd.AddCommand(
		newRunCmd(flags),
		newParseCmd(flags),
		newCheckCmd(flags),
		newExportCmd(flags),
		newConfigCmd(flags),
	)
	return cmd
}

// loadConfig resolves the configuration and applies flag overrides.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	path := flags.configPath
	if path == "" {
		path = os.Getenv(config.EnvPrefix + "CONFIG")
	}
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.NewLoader(path).Load()
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("keymap") {
		cfg.Keymap.Path = flags.keymapPath
	}
	if changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if changed("platform") {
		cfg.Hotkeys.Platform = flags.platform
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
