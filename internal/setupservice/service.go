// Package setupservice provides the concrete implementation of
// pipeline.SetupService. It wires the scanner, config store, template
// catalog and scaffold writers into the setup steps.
package setupservice

import (
	"context"

	"github.com/tramy-dev/tramy/internal/config"
	"github.com/tramy-dev/tramy/internal/errors"
	"github.com/tramy-dev/tramy/internal/fs"
	"github.com/tramy-dev/tramy/internal/logging"
	"github.com/tramy-dev/tramy/internal/pipeline"
	"github.com/tramy-dev/tramy/internal/roles"
	"github.com/tramy-dev/tramy/internal/scaffold"
	"github.com/tramy-dev/tramy/internal/scanner"
	"github.com/tramy-dev/tramy/internal/settings"
	"github.com/tramy-dev/tramy/internal/templates"
)

// Settings step outcomes.
const (
	SettingsCreated = "created"
	SettingsUpdated = "updated"
)

// Service is the production implementation of pipeline.SetupService.
type Service struct {
	fsys fs.FS
}

// New creates a new Service with production dependencies.
func New() *Service {
	return &Service{fsys: fs.NewRealFS()}
}

// NewWithDeps creates a new Service with injected dependencies for testing.
func NewWithDeps(fsys fs.FS) *Service {
	return &Service{fsys: fsys}
}

var _ pipeline.SetupService = (*Service)(nil)

// Scan inspects the project root.
func (s *Service) Scan(ctx context.Context, st *pipeline.SetupState) error {
	info, err := scanner.Scan(ctx, s.fsys, st.Layout.Root)
	if err != nil {
		return err
	}
	st.Info = info
	return nil
}

// BuildConfig derives the config from the role selection, snapshotting the
// scanned project into it.
func (s *Service) BuildConfig(_ context.Context, st *pipeline.SetupState) error {
	var cfg config.Config
	if len(st.RoleIDs) == 0 {
		cfg = config.Default()
		if st.DefaultRole != "" {
			cfg.DefaultRole = st.DefaultRole
		}
	} else {
		cfg = config.ForRoles(st.RoleIDs, st.DefaultRole)
	}

	cfg.Project = config.Project{
		Name:        st.Info.Name,
		Description: st.Info.Description,
		TechStack:   st.Info.TechStack,
	}
	st.Config = cfg
	return nil
}

// SaveConfig writes .tramy/config.yaml.
func (s *Service) SaveConfig(_ context.Context, st *pipeline.SetupState) error {
	return config.Save(s.fsys, st.Layout.Root, st.Config)
}

// CreateOutputDirs creates the output directories in single-role mode only.
func (s *Service) CreateOutputDirs(_ context.Context, st *pipeline.SetupState) error {
	if !st.SingleRole {
		return nil
	}
	res, err := scaffold.CreateOutputDirs(s.fsys, st.Layout.Root, st.Config.Output)
	if err != nil {
		return err
	}
	st.OutputDirs = res.Created
	return nil
}

// WriteClaudeMD renders CLAUDE.md from the scan and the config.
func (s *Service) WriteClaudeMD(_ context.Context, st *pipeline.SetupState) error {
	doc, err := templates.ClaudeMD(st.Info, st.Config)
	if err != nil {
		return errors.Wrap(errors.EInternal, "failed to render CLAUDE.md", err)
	}
	return scaffold.WriteFile(s.fsys, st.Layout.ClaudeMD(), []byte(doc))
}

// Prune removes generated files of roles and workflows no longer enabled.
func (s *Service) Prune(_ context.Context, st *pipeline.SetupState) error {
	res, err := scaffold.Prune(s.fsys, st.Layout, st.Config.EnabledRoles)
	if err != nil {
		return err
	}
	st.Pruned = res.Removed
	return nil
}

// WriteAgents writes .claude/agents/<id>.md for every enabled role.
func (s *Service) WriteAgents(_ context.Context, st *pipeline.SetupState) error {
	recs, err := templates.AgentRecords(roles.ByIDs(st.Config.EnabledRoles))
	if err != nil {
		return errors.Wrap(errors.EInternal, "failed to render agents", err)
	}
	res, err := scaffold.WriteRecords(s.fsys, st.Layout.AgentsDir(), recs, scaffold.EnabledFilter(st.Config.EnabledRoles))
	if err != nil {
		return err
	}
	st.AgentsWritten = len(res.Written)
	return nil
}

// WriteCommands writes .claude/commands/<alias>/<command>.md for every
// command of every enabled role.
func (s *Service) WriteCommands(_ context.Context, st *pipeline.SetupState) error {
	recs, err := templates.CommandRecords(roles.ByIDs(st.Config.EnabledRoles))
	if err != nil {
		return errors.Wrap(errors.EInternal, "failed to render commands", err)
	}
	res, err := scaffold.WriteRecords(s.fsys, st.Layout.CommandsDir(), recs, scaffold.EnabledFilter(st.Config.EnabledRoles))
	if err != nil {
		return err
	}
	st.CommandsWritten = len(res.Written)
	return nil
}

// WriteWorkflows writes .claude/commands/workflow/<id>.md for every workflow
// whose roles are all enabled.
func (s *Service) WriteWorkflows(_ context.Context, st *pipeline.SetupState) error {
	recs := templates.WorkflowRecords(templates.EnabledWorkflows(st.Config.EnabledRoles))
	res, err := scaffold.WriteRecords(s.fsys, st.Layout.CommandsDir(), recs, nil)
	if err != nil {
		return err
	}
	st.WorkflowsWritten = len(res.Written)
	return nil
}

// MergeSettings merges the prompt hook into .claude/settings.json, keeping
// every other setting.
func (s *Service) MergeSettings(_ context.Context, st *pipeline.SetupState) error {
	path := st.Layout.SettingsFile()

	existing, err := fs.ReadFile(s.fsys, path)
	st.Settings = SettingsUpdated
	if err != nil {
		if exists, _ := fs.Exists(s.fsys, path); exists {
			return errors.WrapWithDetails(errors.EWriteFailed, "failed to read "+path, err,
				map[string]string{"path": path})
		}
		existing = nil
		st.Settings = SettingsCreated
	}

	data, err := settings.Encode(settings.Merge(existing))
	if err != nil {
		return errors.Wrap(errors.EInternal, "failed to encode settings", err)
	}
	return scaffold.WriteFile(s.fsys, path, data)
}

// UpdateGitignore ensures .claude/settings.local.json is ignored, unless
// disabled by the caller.
func (s *Service) UpdateGitignore(_ context.Context, st *pipeline.SetupState) error {
	if st.NoGitignore {
		st.Gitignore = scaffold.GitignoreSkipped
		return nil
	}
	res, err := scaffold.EnsureGitignore(s.fsys, st.Layout.Gitignore())
	if err != nil {
		logging.Debug().Err(err).Msg("setupservice: gitignore update failed")
		return errors.WrapWithDetails(errors.EWriteFailed, "failed to update .gitignore", err,
			map[string]string{"path": st.Layout.Gitignore()})
	}
	st.Gitignore = res
	return nil
}
