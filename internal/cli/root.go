// Package cli implements the habitlog command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/habitlog/pkg/habitlog"
	"github.com/mesh-intelligence/habitlog/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	logLevel  string
	jsonMode  bool
}

// app is the state shared by one invocation of the command tree.
type app struct {
	flags     rootFlags
	now       func() time.Time
	configDir string
	cfg       types.Config
	logger    *slog.Logger
	sess      *habitlog.Session
}

// NewRootCmd creates the top-level "habitlog" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{now: time.Now})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "habitlog",
		Short: "Track daily habits, practice problems, and notes",
		Long: "habitlog keeps a ledger of daily habits, practice problems, and notes\n" +
			"in a local JSON file, optionally mirrored to a remote SQLite database.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			a.reportRemote(cmd)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: .habitlog)")
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newStatusCmd(a))
	root.AddCommand(newHabitCmd(a))
	root.AddCommand(newDoneCmd(a))
	root.AddCommand(newUndoCmd(a))
	root.AddCommand(newLogCmd(a))
	root.AddCommand(newProblemCmd(a))
	root.AddCommand(newNoteCmd(a))
	root.AddCommand(newReportCmd(a))
	root.AddCommand(newResetCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// exitCode maps filesystem failures to exitSysError and everything else,
// validation included, to exitUserError.
func exitCode(err error) int {
	var pathErr *fs.PathError
	var linkErr *os.LinkError
	if errors.As(err, &pathErr) || errors.As(err, &linkErr) {
		return exitSysError
	}
	return exitUserError
}

// setup resolves configuration and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	configDir, cfg, level, err := resolveConfig(a.flags)
	if err != nil {
		return err
	}
	if a.flags.logLevel != "" {
		level = a.flags.logLevel
	}
	logger, err := newLogger(cmd.ErrOrStderr(), level)
	if err != nil {
		return err
	}
	a.configDir = configDir
	a.cfg = cfg
	a.logger = logger
	return nil
}

// session returns the invocation's Session, creating it on first use.
func (a *app) session() (*habitlog.Session, error) {
	if a.sess != nil {
		return a.sess, nil
	}
	s, err := habitlog.NewSession(habitlog.Options{
		Config: a.cfg,
		Logger: a.logger,
		Now:    a.now,
	})
	if err != nil {
		return nil, err
	}
	a.sess = s
	return s, nil
}

// reportRemote prints an advisory when a configured remote backend could
// not be used. Nothing is printed in local-only mode or after init, which
// provisions the remote itself.
func (a *app) reportRemote(cmd *cobra.Command) {
	if a.sess == nil || cmd.Name() == "init" {
		return
	}
	out := a.sess.Outcome()
	if !out.RemoteConfigured || !out.RemoteUnavailable() {
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Sprint("warning:"), "remote backend unavailable, using local file:", out.RemoteErr)
}
