package commands

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/tramy-dev/tramy/internal/config"
	"github.com/tramy-dev/tramy/internal/errors"
	"github.com/tramy-dev/tramy/internal/fs"
	"github.com/tramy-dev/tramy/internal/logging"
	"github.com/tramy-dev/tramy/internal/pipeline"
	"github.com/tramy-dev/tramy/internal/roles"
	"github.com/tramy-dev/tramy/internal/scanner"
)

// SetupOpts holds the flags of tramy setup.
type SetupOpts struct {
	// Role selects single-role mode (alias or id).
	Role string

	// Roles selects a role set (aliases or ids).
	Roles []string

	// DefaultRole overrides the default role (alias or id).
	DefaultRole string

	// Yes skips the overwrite prompt.
	Yes bool

	// NoGitignore leaves .gitignore untouched.
	NoGitignore bool
}

// Setup implements `tramy setup`.
// It resolves the role selection, asks before overwriting an existing setup
// and runs the setup pipeline against cwd.
func Setup(ctx context.Context, svc pipeline.SetupService, fsys fs.FS, prompter Prompter, cwd string, opts SetupOpts, stdout, stderr io.Writer) error {
	popts, err := resolveSetupOpts(cwd, opts)
	if err != nil {
		return err
	}

	if config.IsInitialized(fsys, cwd) && !opts.Yes {
		ok, err := prompter.Confirm("Overwrite existing tramy setup? [y/N]")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(stdout, "setup cancelled")
			return nil
		}
	}

	logging.Info().
		Str("root", cwd).
		Strs("roles", popts.RoleIDs).
		Bool("single_role", popts.SingleRole).
		Msg("setup: starting")

	var st *pipeline.SetupState
	err = withProjectLock(fsys, cwd, "setup", func() error {
		var runErr error
		st, runErr = pipeline.NewPipeline(svc).Run(ctx, popts)
		return runErr
	})
	if err != nil {
		return err
	}

	writeSetupSummary(stdout, st)
	for _, w := range st.Warnings {
		fmt.Fprintf(stderr, "warning: %s\n", w.Message)
	}
	return nil
}

func resolveSetupOpts(cwd string, opts SetupOpts) (pipeline.SetupOpts, error) {
	popts := pipeline.SetupOpts{Root: cwd, NoGitignore: opts.NoGitignore}

	if opts.Role != "" && len(opts.Roles) > 0 {
		return popts, errors.New(errors.EUsage, "use either a role argument or --roles, not both")
	}

	switch {
	case opts.Role != "":
		r, err := resolveRole(opts.Role)
		if err != nil {
			return popts, err
		}
		popts.RoleIDs = []string{r.ID}
		popts.DefaultRole = r.ID
		popts.SingleRole = true
	case len(opts.Roles) > 0:
		ids, unknown := resolveRoleList(opts.Roles)
		if len(unknown) > 0 {
			return popts, errors.NewWithHint(errors.EUnknownRole,
				"unknown role "+strings.Join(quoteAll(unknown), ", "), hintRoleList)
		}
		popts.RoleIDs = ids
	}

	if opts.DefaultRole != "" {
		r, err := resolveRole(opts.DefaultRole)
		if err != nil {
			return popts, err
		}
		if popts.SingleRole && r.ID != popts.DefaultRole {
			return popts, errors.New(errors.EUsage, "--default-role must match the role argument")
		}
		if len(popts.RoleIDs) > 0 && !slices.Contains(popts.RoleIDs, r.ID) {
			return popts, errors.NewWithHint(errors.ERoleNotEnabled,
				fmt.Sprintf("default role %s is not in the selected roles", r.ID),
				"add it to --roles")
		}
		popts.DefaultRole = r.ID
	}
	return popts, nil
}

// resolveRoleList splits comma-separated values and resolves each one.
func resolveRoleList(values []string) (ids, unknown []string) {
	var refs []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				refs = append(refs, part)
			}
		}
	}
	return roles.ResolveAll(refs)
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}

func writeSetupSummary(w io.Writer, st *pipeline.SetupState) {
	fmt.Fprintf(w, "project: %s\n", st.Config.Project.Name)
	fmt.Fprintf(w, "tech_stack: %s\n", scanner.FormatTechStack(st.Config.Project.TechStack))
	fmt.Fprintf(w, "roles: %s\n", strings.Join(st.Config.EnabledRoles, ", "))
	fmt.Fprintf(w, "default_role: %s\n", st.Config.DefaultRole)
	if st.SingleRole {
		fmt.Fprintf(w, "output_dirs_created: %d\n", len(st.OutputDirs))
	}
	if len(st.Pruned) > 0 {
		fmt.Fprintf(w, "pruned: %d\n", len(st.Pruned))
	}
	fmt.Fprintf(w, "commands_written: %d\n", st.CommandsWritten)
	fmt.Fprintf(w, "agents_written: %d\n", st.AgentsWritten)
	fmt.Fprintf(w, "workflows_written: %d\n", st.WorkflowsWritten)
	fmt.Fprintf(w, "settings: %s\n", st.Settings)
	fmt.Fprintf(w, "gitignore: %s\n", st.Gitignore)
	fmt.Fprintln(w, "setup complete")
}
