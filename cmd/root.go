package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/samsaffron/term-llm/internal/config"
	"github.com/samsaffron/term-llm/internal/prettifier"
	"github.com/spf13/cobra"
)

var configFlag string

var rootCmd = &cobra.Command{
	Use:   "term-llm",
	Short: "Pretty-print structured content piped through a terminal",
	Long: `term-llm detects markdown, JSON, diffs, stack traces, and other
structured formats in piped or redirected output and re-renders them with
color and layout, the same pipeline a live terminal overlay would run.

Examples:
  cat diff.patch | term-llm prettify
  term-llm --config show
  term-llm --config edit`,
	Args: cobra.ArbitraryArgs,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&configFlag, "config", "", "Config operation: 'show' or 'edit'")
	rootCmd.AddCommand(prettifyCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if configFlag != "" {
		return handleConfig(configFlag)
	}
	return cmd.Help()
}

func handleConfig(operation string) error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	switch operation {
	case "show":
		return showConfig(configPath)
	case "edit":
		return editConfig(configPath)
	default:
		return fmt.Errorf("unknown config operation: %s (use 'show' or 'edit')", operation)
	}
}

func showConfig(configPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		fmt.Printf("# No config file (using defaults)\n")
		fmt.Printf("# Create one at: %s\n\n", configPath)
	} else {
		fmt.Printf("# %s\n\n", configPath)
	}

	p := cfg.Prettifier
	fmt.Printf("prettifier:\n")
	fmt.Printf("  enabled: %t\n", p.Enabled)
	fmt.Printf("  confidence_threshold: %v\n", p.ConfidenceThreshold)
	fmt.Printf("  detection_scope: %s\n", p.DetectionScope)
	fmt.Printf("  render_cache_capacity: %d\n", p.RenderCacheCapacity)
	fmt.Printf("  force_agent_session: %t\n", p.ForceAgentSession)
	return nil
}

func editConfig(configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.Save(&config.Config{Prettifier: prettifier.DefaultPrettifierConfig()}); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		editor = "vi"
	}

	cmd := exec.Command(editor, configPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
