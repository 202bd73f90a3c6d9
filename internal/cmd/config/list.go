package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yacchi/danmaku-cli/internal/cmdutil"
	"github.com/yacchi/danmaku-cli/internal/config"
)

var (
	listAllFlag  bool
	listYAMLFlag bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configuration values",
	Long: `List configuration values.

By default, shows only modified values (non-default).
Use --all to show all configuration values including defaults.
Use --yaml to print the values as a YAML document.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVarP(&listAllFlag, "all", "a", false, "Show all configuration values including defaults")
	listCmd.Flags().BoolVar(&listYAMLFlag, "yaml", false, "Output as YAML")
}

type listEntry struct {
	path         string
	value        any
	layer        string
	defaultValue any
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return &cmdutil.ConfigError{Err: err}
	}

	var entries []listEntry
	cfg.WalkEx(func(e config.WalkEntry) bool {
		if !listAllFlag && e.Layer == config.LayerDefaults {
			return true
		}
		entries = append(entries, listEntry{
			path:         e.Path,
			value:        e.Value,
			layer:        e.Layer,
			defaultValue: e.DefaultValue,
		})
		return true
	})

	if listYAMLFlag {
		out, err := yaml.Marshal(nestEntries(entries))
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	}

	if userPath := cfg.GetUserConfigPath(); userPath != "" {
		fmt.Printf("# User config: %s\n", userPath)
	}
	if projectPath := cfg.GetProjectConfigPath(); projectPath != "" {
		fmt.Printf("# Project config: %s\n", projectPath)
	}

	maxWidth := 0
	for _, e := range entries {
		if n := len(formatLine(e)); n > maxWidth {
			maxWidth = n
		}
	}
	for _, e := range entries {
		comment := e.layer
		def := fmt.Sprint(e.defaultValue)
		if e.defaultValue != nil && fmt.Sprint(e.value) != def {
			comment = fmt.Sprintf("%s, default: %s", e.layer, def)
		}
		fmt.Printf("%-*s  # %s\n", maxWidth, formatLine(e), comment)
	}

	if len(entries) == 0 {
		if listAllFlag {
			fmt.Println("No configuration values found.")
		} else {
			fmt.Println("No modified configuration values.")
			fmt.Println("Use --all to show all configuration values including defaults.")
		}
	}
	return nil
}

func formatLine(e listEntry) string {
	return fmt.Sprintf("%s=%v", e.path, e.value)
}

// nestEntries はドット区切りのパスを入れ子の map に組み立てる
func nestEntries(entries []listEntry) map[string]any {
	root := map[string]any{}
	for _, e := range entries {
		parts := strings.Split(e.path, ".")
		node := root
		for _, p := range parts[:len(parts)-1] {
			child, ok := node[p].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[p] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = e.value
	}
	return root
}
