// Mbtools is a terminal workbench for Modbus scripts and port settings.
//
// Usage:
//
//	mbtools edit [script]
//	mbtools port [--file settings.toml]
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kobzarvs/mbtools/internal/app"
	"github.com/kobzarvs/mbtools/internal/logger"
	"github.com/kobzarvs/mbtools/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var debug bool

var rootCmd = &cobra.Command{
	Use:           "mbtools",
	Short:         "Modbus script editor and port setup",
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Init(debug); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Write debug records to the log file")
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(portCmd)
	rootCmd.AddCommand(versionCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit [script]",
	Short: "Edit a Modbus script",
	Long: `Open a script in the terminal editor.

A missing file starts an empty script that is created on first save.
Cursor positions are remembered per file between sessions.`,
	Example: `  mbtools edit poll.py
  mbtools --debug edit`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		}
		return app.New(nil).Edit(path)
	},
}

var portFile string

var portCmd = &cobra.Command{
	Use:   "port",
	Short: "Configure a client port",
	Long: `Show the client port dialog for the settings in --file.

The file is YAML (.yaml, .yml) or TOML by extension and is rewritten when the
dialog is accepted. Without --file, port.toml in the config directory
is used.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		file := portFile
		if file == "" {
			def, err := app.DefaultPortFile()
			if err != nil {
				return err
			}
			file = def
		}
		ok, err := app.New(nil).Port(file)
		if err != nil {
			return err
		}
		if ok {
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", file)
		}
		return nil
	},
}

func init() {
	portCmd.Flags().StringVarP(&portFile, "file", "f", "", "Port settings file")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mbtools %s\n", version.Full())
	},
}
