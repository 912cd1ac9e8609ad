package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	embeddedconfig "github.com/inercia/autorun/config"
	"github.com/inercia/autorun/internal/config"
	"github.com/inercia/autorun/internal/fileutil"
)

var (
	configForce bool
	configYAML  bool
)

// configCmd represents the config parent command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the workspace configuration",
	Long: `Manage the Autorun workspace file.

Use the subcommands to create, inspect or validate it.`,
}

// configCreateCmd represents the config create subcommand
var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a starter workspace file",
	Long: `Write a starter workspace file at the configured path
(autorun.config.json in the workspace root by default).

A path ending in .yaml or .yml gets the YAML form of the same template.

Examples:
  autorun config create              # Create ./autorun.config.json
  autorun config create -d ~/src/app # Create it in another workspace
  autorun config create --force      # Overwrite an existing file`,
	Args: cobra.NoArgs,
	RunE: runConfigCreate,
}

// configShowCmd represents the config show subcommand
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	Long: `Resolve the configuration exactly as a launch would and print it,
including where it came from.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

// configValidateCmd represents the config validate subcommand
var configValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a workspace file",
	Long: `Validate a workspace file and report why it is rejected, if it is.

Without an argument the configured workspace file is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configCreateCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)

	configCreateCmd.Flags().BoolVarP(&configForce, "force", "f", false,
		"Overwrite existing workspace file")
	configShowCmd.Flags().BoolVar(&configYAML, "yaml", false,
		"Print YAML instead of JSON")
}

func runConfigCreate(cmd *cobra.Command, args []string) error {
	rt, err := newConfigRuntime(cmd)
	if err != nil {
		return err
	}
	path, err := rt.resolver.WorkspaceFilePath()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if fileutil.Exists(path) && !configForce {
		fmt.Fprintf(out, "⚠️  Workspace file already exists: %s\n", path)
		fmt.Fprintln(out, "Use --force to overwrite the existing file.")
		return nil
	}

	data := embeddedconfig.WorkspaceTemplate
	if config.IsYAMLPath(path) {
		if data, err = jsonToYAML(data); err != nil {
			return err
		}
	}
	if err := fileutil.WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write workspace file: %w", err)
	}

	fmt.Fprintf(out, "✅ Workspace file created: %s\n", path)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Edit the terminal names and commands")
	fmt.Fprintln(out, "  2. Run 'autorun config validate' to check it")
	fmt.Fprintln(out, "  3. Run 'autorun launch' to open the terminals")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	rt, err := newConfigRuntime(cmd)
	if err != nil {
		return err
	}
	cfg, err := rt.resolver.Resolve()
	if err != nil {
		return err
	}
	return writeConfig(cmd.OutOrStdout(), cfg, configYAML)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		rt, err := newConfigRuntime(cmd)
		if err != nil {
			return err
		}
		if path, err = rt.resolver.WorkspaceFilePath(); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read workspace file: %w", err)
	}
	wf, err := config.ParseWorkspaceFile(path, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ %s is valid (%d terminals)\n", path, len(wf.Terminals))
	return nil
}

func writeConfig(w io.Writer, cfg config.AutorunConfig, asYAML bool) error {
	if asYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}

// jsonToYAML re-encodes a JSON document as block-style YAML, keeping key
// order.
func jsonToYAML(data []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	clearStyle(&doc)
	out, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode template: %w", err)
	}
	return out, nil
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}
