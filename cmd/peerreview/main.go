// cmd/peerreview/main.go
//
// Entry point for the peerreview CLI.
// With no subcommand it opens the terminal wizard in the project directory;
// the subcommands cover rubric inspection, headless submission and history.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/peerreview/internal/config"
	"github.com/kingrea/peerreview/internal/output"
	"github.com/kingrea/peerreview/internal/tui"
)

var version = "0.1.0"

// Exit codes.
const (
	exitFailure    = 1
	exitConfig     = 2
	exitValidation = 3
	exitSubmission = 4
)

func main() {
	root := newRootCmd(output.New())
	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, ee.msg)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFailure)
	}
}

// cli carries the global flags and shared output for every subcommand.
type cli struct {
	project string
	verbose bool
	ui      *output.UI
}

func newRootCmd(ui *output.UI) *cobra.Command {
	c := &cli{ui: ui}

	root := &cobra.Command{
		Use:   "peerreview",
		Short: "Grade classmates' presentations against a weighted rubric",
		Long: `peerreview walks a reviewer through scoring a presenter on each rubric
criterion, computes the weighted total and posts it to the course's
collection form. Run without a subcommand to open the terminal wizard.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.ui.Verbose = c.verbose
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWizard()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.project, "project", "", "Project directory holding .peerreview (default: current directory)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Verbose output")

	root.AddCommand(newRubricCmd(c), newSubmitCmd(c), newHistoryCmd(c))
	return root
}

func (c *cli) projectDir() (string, error) {
	if c.project == "" {
		return os.Getwd()
	}
	return filepath.Abs(c.project)
}

// loadConfig makes sure .peerreview exists and loads it.
func (c *cli) loadConfig() (*config.Config, error) {
	dir, err := c.projectDir()
	if err != nil {
		return nil, err
	}
	if err := config.InitDir(dir); err != nil {
		return nil, exitError(exitConfig, "%v", err)
	}
	cfg, err := config.NewConfig(dir)
	if err != nil {
		return nil, exitError(exitConfig, "%v", err)
	}
	c.ui.VerboseLog("Using %s", cfg.ProjectConfigPath())
	return cfg, nil
}

func (c *cli) runWizard() error {
	dir, err := c.projectDir()
	if err != nil {
		return err
	}
	if err := config.InitDir(dir); err != nil {
		return exitError(exitConfig, "%v", err)
	}
	app, err := tui.NewApp(dir)
	if err != nil {
		return exitError(exitConfig, "%v", err)
	}
	defer app.Close()

	// Alternate screen buffer, like vim
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run wizard: %w", err)
	}
	return nil
}

type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func exitError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}
