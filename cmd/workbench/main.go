// Command workbench is the terminal-hosted workspace multiplexer's entry
// point: it loads configuration, resolves the start directory, and runs
// the Event Loop until quit (spec §4.9, §9 "Initialization order").
// Grounded on the teacher's cmd/thicc/micro.go flag handling, rebuilt on
// cobra the way the rest of the retrieval pack's CLIs (dcosson-h2,
// ekain-fr-h2, TechDufus-openkanban) structure their entry points.
package main

import (
	"fmt"
	"os"

	"github.com/eqms/claude-workbench/internal/config"
	"github.com/eqms/claude-workbench/internal/screen"
	"github.com/eqms/claude-workbench/internal/workbench"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:   "workbench [directory]",
		Short: "A terminal workspace multiplexer for file browsing, preview, and PTY panes",
		Long: `workbench composes a file browser, a file preview, and three embedded
pseudo-terminal panes (an AI assistant CLI, a Git TUI, and a general
shell) behind a single input/render/focus event loop.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configDir, args)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&configDir, "config-dir", "", "custom location for the configuration directory")
	return cmd
}

func run(configDir string, args []string) error {
	if !screen.CanUseAltScreen() {
		return fmt.Errorf("workbench: stdout is not a terminal")
	}

	if err := config.InitConfigDir(configDir); err != nil {
		return fmt.Errorf("workbench: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("workbench: load config: %w", err)
	}

	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	abs, err := os.Getwd()
	if err == nil && root == "." {
		root = abs
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return fmt.Errorf("workbench: %q is not a directory", root)
	}

	wb, err := workbench.New(cfg, root)
	if err != nil {
		return fmt.Errorf("workbench: %w", err)
	}
	return wb.Run()
}
