// Package cli handles command-line parsing and dispatch for tramy.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tramy-dev/tramy/internal/commands"
	"github.com/tramy-dev/tramy/internal/errors"
	"github.com/tramy-dev/tramy/internal/exec"
	"github.com/tramy-dev/tramy/internal/fs"
	"github.com/tramy-dev/tramy/internal/logging"
	"github.com/tramy-dev/tramy/internal/setupservice"
	"github.com/tramy-dev/tramy/internal/version"
)

// Env holds the process dependencies of one invocation.
type Env struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	FS     fs.FS
	Runner exec.CommandRunner
	Getwd  func() (string, error)
}

// Run parses arguments and dispatches to the appropriate subcommand using
// the real filesystem and process environment.
// Returns an error if the command fails; the caller should print the error and exit.
func Run(args []string, stdout, stderr io.Writer) error {
	return RunContext(context.Background(), args, stdout, stderr)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	return RunWithEnv(args, Env{
		Ctx:    ctx,
		Stdin:  os.Stdin,
		Stdout: stdout,
		Stderr: stderr,
		FS:     fs.NewRealFS(),
		Runner: exec.NewRealRunner(),
		Getwd:  os.Getwd,
	})
}

// RunWithEnv dispatches args against env.
func RunWithEnv(args []string, env Env) error {
	if env.Ctx == nil {
		env.Ctx = context.Background()
	}
	app := &app{env: env}
	root := app.rootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(env.Ctx)
	if err == nil {
		return nil
	}
	if _, ok := errors.AsTramyError(err); ok || app.ran {
		return err
	}
	// Errors raised before a handler ran come from argument parsing.
	return errors.Wrap(errors.EUsage, "invalid usage", err)
}

type app struct {
	env Env
	ran bool

	printLogs bool
	logLevel  string
}

func (a *app) cwd() (string, error) {
	wd, err := a.env.Getwd()
	if err != nil {
		return "", errors.Wrap(errors.EInternal, "failed to get working directory", err)
	}
	return wd, nil
}

// handler marks the start of command execution so later errors are not
// reported as usage errors.
func (a *app) handler(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a.ran = true
		return fn(cmd, args)
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "tramy",
		Short: "tramy - role-based slash commands and agents for Claude Code",
		Long: `tramy sets up Claude Code for a project: per-role slash commands,
agent definitions, multi-role workflows and a CLAUDE.md context file.`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(a.printLogs, a.logLevel, a.env.Stderr)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.NewWithHint(errors.EUsage, "no command specified", "run 'tramy --help'")
		},
	}
	root.SetIn(a.env.Stdin)
	root.SetOut(a.env.Stdout)
	root.SetErr(a.env.Stderr)
	root.SetVersionTemplate("tramy {{.Version}}\n")
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.BoolVar(&a.printLogs, "print-logs", false, "write logs to stderr")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (default $"+logging.EnvLevel+" or info)")

	root.AddCommand(
		a.setupCommand(),
		a.listCommand(),
		a.roleCommand(),
		a.workflowCommand(),
		a.contextCommand(),
		a.doctorCommand(),
		a.versionCommand(),
	)
	return root
}

func (a *app) setupCommand() *cobra.Command {
	var opts commands.SetupOpts
	cmd := &cobra.Command{
		Use:   "setup [role]",
		Short: "Generate commands, agents, workflows and CLAUDE.md",
		Long: `Scan the project and generate Claude Code files for the selected roles.

With a role argument only that role is enabled and its output directories
are created. With --roles a set of roles is enabled. Without either, every
role is enabled.`,
		Example: `  tramy setup
  tramy setup da
  tramy setup --roles pm,dev,test --default-role dev`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.handler(func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Role = args[0]
			}
			cwd, err := a.cwd()
			if err != nil {
				return err
			}
			prompter := commands.NewStdinPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			return commands.Setup(cmd.Context(), setupservice.NewWithDeps(a.env.FS), a.env.FS, prompter,
				cwd, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		}),
	}
	f := cmd.Flags()
	f.BoolVarP(&opts.Yes, "yes", "y", false, "overwrite an existing setup without asking")
	f.StringSliceVar(&opts.Roles, "roles", nil, "roles to enable (aliases or ids, comma-separated)")
	f.StringVar(&opts.DefaultRole, "default-role", "", "default role (alias or id)")
	f.BoolVar(&opts.NoGitignore, "no-gitignore", false, "do not modify .gitignore")
	return cmd
}

func (a *app) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List enabled roles and their slash commands",
		Args:  cobra.NoArgs,
		RunE: a.handler(func(cmd *cobra.Command, args []string) error {
			cwd, err := a.cwd()
			if err != nil {
				return err
			}
			return commands.List(a.env.FS, cwd, cmd.OutOrStdout())
		}),
	}
}

func (a *app) roleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "role",
		Short: "Inspect roles and switch the default role",
		Args:  cobra.NoArgs,
	}

	var listOpts commands.ListOpts
	list := &cobra.Command{
		Use:   "list",
		Short: "List all roles",
		Args:  cobra.NoArgs,
		RunE: a.handler(func(cmd *cobra.Command, args []string) error {
			cwd, err := a.cwd()
			if err != nil {
				return err
			}
			return commands.RoleList(a.env.FS, cwd, listOpts, cmd.OutOrStdout())
		}),
	}
	list.Flags().BoolVar(&listOpts.JSON, "json", false, "output as JSON")

	info := &cobra.Command{
		Use:   "info <role>",
		Short: "Show a role's capabilities and commands",
		Args:  cobra.ExactArgs(1),
		RunE: a.handler(func(cmd *cobra.Command, args []string) error {
			cwd, err := a.cwd()
			if err != nil {
				return err
			}
			return commands.RoleInfo(a.env.FS, cwd, args[0], cmd.OutOrStdout())
		}),
	}

	switchCmd := &cobra.Command{
		Use:   "switch <role>",
		Short: "Set the default role and refresh CLAUDE.md",
		Args:  cobra.ExactArgs(1),
		RunE: a.handler(func(cmd *cobra.Command, args []string) error {
			cwd, err := a.cwd()
			if err != nil {
				return err
			}
			return commands.RoleSwitch(cmd.Context(), a.env.FS, cwd, args[0], cmd.OutOrStdout())
		}),
	}

	cmd.AddCommand(list, info, switchCmd)
	return cmd
}

func (a *app) workflowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Inspect and print multi-role workflows",
		Args:  cobra.NoArgs,
	}

	var listOpts commands.ListOpts
	list := &cobra.Command{
		Use:   "list",
		Short: "List all workflows",
		Args:  cobra.NoArgs,
		RunE: a.handler(func(cmd *cobra.Command, args []string) error {
			cwd, err := a.cwd()
			if err != nil {
				return err
			}
			return commands.WorkflowList(a.env.FS, cwd, listOpts, cmd.OutOrStdout())
		}),
	}
	list.Flags().BoolVar(&listOpts.JSON, "json", false, "output as JSON")

	info := &cobra.Command{
		Use:   "info <id>",
		Short: "Show a workflow's phases",
		Args:  cobra.ExactArgs(1),
		RunE: a.handler(func(cmd *cobra.Command, args []string) error {
			cwd, err := a.cwd()
			if err != nil {
				return err
			}
			return commands.WorkflowInfo(a.env.FS, cwd, args[0], cmd.OutOrStdout())
		}),
	}

	run := &cobra.Command{
		Use:     "run <id> [args...]",
		Short:   "Print a workflow runbook with its arguments filled in",
		Example: `  tramy workflow run fix "login times out on mobile"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: a.handler(func(cmd *cobra.Command, args []string) error {
			return commands.WorkflowRun(args[0], args[1:], cmd.OutOrStdout())
		}),
	}
	run.Flags().SetInterspersed(false)

	cmd.AddCommand(list, info, run)
	return cmd
}

func (a *app) contextCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Show the project context stored in the config",
		Args:  cobra.NoArgs,
		RunE: a.handler(func(cmd *cobra.Command, args []string) error {
			cwd, err := a.cwd()
			if err != nil {
				return err
			}
			return commands.Context(a.env.FS, cwd, cmd.OutOrStdout())
		}),
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "update",
		Short: "Rescan the project and rewrite CLAUDE.md",
		Args:  cobra.NoArgs,
		RunE: a.handler(func(cmd *cobra.Command, args []string) error {
			cwd, err := a.cwd()
			if err != nil {
				return err
			}
			return commands.ContextUpdate(cmd.Context(), a.env.FS, cwd, cmd.OutOrStdout())
		}),
	})
	return cmd
}

func (a *app) doctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the project setup and tooling",
		Long: `Check the project setup and tooling without modifying anything.
Exits non-zero when any check fails; warnings do not fail.`,
		Args: cobra.NoArgs,
		RunE: a.handler(func(cmd *cobra.Command, args []string) error {
			cwd, err := a.cwd()
			if err != nil {
				return err
			}
			return commands.Doctor(cmd.Context(), a.env.Runner, a.env.FS, cwd, cmd.OutOrStdout())
		}),
	}
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tramy version",
		Args:  cobra.NoArgs,
		RunE: a.handler(func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "tramy %s\n", version.Version)
			return err
		}),
	}
}
