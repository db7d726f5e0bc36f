package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/hotkeys/internal/keymap"
)

// keymapPath returns the keymap argument, or the configured keymap.
func keymapPath(cmd *cobra.Command, root *rootFlags, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	cfg, err := loadConfig(cmd, root)
	if err != nil {
		return "", err
	}
	return cfg.Keymap.Path, nil
}

func newCheckCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check [keymap]",
		Short: "Validate a keymap and list its bindings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := keymapPath(cmd, root, args)
			if err != nil {
				return err
			}
			km, err := keymap.LoadFile(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, b := range km.Bindings {
				fmt.Fprintf(out, "%3d  %-20s  %s\n", i, b.Keys, b.Describe())
			}

			if err := km.Validate(); err != nil {
				var n int
				for _, e := range unwrapJoined(err) {
					fmt.Fprintln(cmd.ErrOrStderr(), e)
					n++
				}
				return fmt.Errorf("%s: %d invalid binding(s)", path, n)
			}
			fmt.Fprintf(out, "%s: %d binding(s) ok\n", path, len(km.Bindings))
			return nil
		},
	}
}

func unwrapJoined(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

func newExportCmd(root *rootFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [keymap]",
		Short: "Write a keymap as JSON with canonical patterns",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := keymapPath(cmd, root, args)
			if err != nil {
				return err
			}
			km, err := keymap.LoadFile(path)
			if err != nil {
				return err
			}
			data, err := keymap.ExportJSON(km)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}
