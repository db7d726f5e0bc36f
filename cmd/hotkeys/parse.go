package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/hotkeys/internal/input/key"
)

func newParseCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <pattern>",
		Short: "Show how a hotkey pattern is split and matched",
		Example: `  hotkeys parse ctrl+shift+k
  hotkeys parse 'ctrl+k-ctrl+s'
  hotkeys parse --platform mac cmd+s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform := key.CurrentPlatform()
			if cmd.Flags().Changed("platform") {
				platform = key.ParsePlatform(root.platform)
			}
			return printPattern(cmd, args[0], platform)
		},
	}
}

func printPattern(cmd *cobra.Command, pattern string, platform key.Platform) error {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	groups, err := key.ValidateSequence(pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	canonical, err := key.FormatSequence(pattern)
	if err != nil {
		return fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "pattern\t%s\n", pattern)
	fmt.Fprintf(w, "canonical\t%s\n", canonical)
	fmt.Fprintf(w, "platform\t%s\n", platform)
	fmt.Fprintf(w, "groups\t%d\n", len(groups))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "#\tGROUP\tKEYS\tSEPARATORS\tKEY\tMODIFIERS")

	parser := key.NewParser(nil)
	for i, g := range groups {
		parts := parser.SplitCombination(g)
		c := key.MustParseCombination(g)

		keyName := c.Key
		switch {
		case !c.Valid():
			keyName = "(never matches)"
		case keyName == " ":
			keyName = "space"
		case keyName == "":
			keyName = "(none)"
		}
		mods := c.Expected(platform).String()
		if mods == "" {
			mods = "none"
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, g,
			strings.Join(quoteAll(parts.Keys), " "),
			strings.Join(quoteAll(nonEmpty(parts.Separators)), " "),
			keyName, mods,
		)
	}
	return w.Flush()
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}

func nonEmpty(ss []string) []string {
	var out []string
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
