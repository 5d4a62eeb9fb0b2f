package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/benjamonnguyen/eisenhower"
)

var Version = "dev"

func main() {
	rootCmd, closeApp := newRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		closeApp()
		fmt.Fprintln(os.Stderr, colorize(colorRed, err.Error()))
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. The returned func closes the app if a
// command failed before PersistentPostRun could.
func newRootCmd() (*cobra.Command, func()) {
	var (
		confFile string
		a        *app
	)
	closeApp := func() {
		if a != nil {
			a.Close()
		}
	}

	rootCmd := &cobra.Command{
		Use:           "eisenhower",
		Short:         "Prioritize tasks on an urgency x importance matrix",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = openApp(cmd.Context(), confFile)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeApp()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(newModel(a), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				a.l.Error("program failed", "error", err)
				return err
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&confFile, "config", eisenhower.DefaultConfFile(), "path to dotenv config file")

	appFn := func() *app { return a }
	rootCmd.AddCommand(addCmd(appFn))
	rootCmd.AddCommand(listCmd(appFn))
	rootCmd.AddCommand(doneCmd(appFn))
	rootCmd.AddCommand(sessionsCmd(appFn))
	rootCmd.AddCommand(notesCmd(appFn))
	rootCmd.AddCommand(themeCmd(appFn))
	rootCmd.AddCommand(importCmd(appFn))
	rootCmd.AddCommand(exportCmd(appFn))
	return rootCmd, closeApp
}
