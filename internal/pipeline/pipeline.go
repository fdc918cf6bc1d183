// Package pipeline provides the setup pipeline orchestrator.
// The pipeline executes steps in a fixed order, short-circuits on first error,
// and preserves TramyError codes.
package pipeline

import (
	"context"

	"github.com/tramy-dev/tramy/internal/config"
	"github.com/tramy-dev/tramy/internal/errors"
	"github.com/tramy-dev/tramy/internal/logging"
	"github.com/tramy-dev/tramy/internal/paths"
	"github.com/tramy-dev/tramy/internal/scaffold"
	"github.com/tramy-dev/tramy/internal/scanner"
)

// SetupOpts contains the inputs for running a setup pipeline.
type SetupOpts struct {
	// Root is the project directory.
	Root string

	// RoleIDs is the resolved role set. Empty means every catalog role.
	RoleIDs []string

	// DefaultRole is a role id; empty selects the config default.
	DefaultRole string

	// SingleRole creates the output directories.
	SingleRole bool

	// NoGitignore leaves .gitignore untouched.
	NoGitignore bool
}

// Warning represents a non-fatal warning emitted during pipeline execution.
type Warning struct {
	// Code is a stable warning identifier.
	Code string

	// Message is a human-readable description.
	Message string
}

// SetupState accumulates state during pipeline execution.
// Fields are populated by steps as they execute.
type SetupState struct {
	// From opts (copied at start)
	Layout      paths.Layout
	RoleIDs     []string
	DefaultRole string
	SingleRole  bool
	NoGitignore bool

	// Populated by Scan
	Info scanner.ProjectInfo

	// Populated by BuildConfig
	Config config.Config

	// Populated by the write steps
	OutputDirs       []string
	Pruned           []string
	AgentsWritten    int
	CommandsWritten  int
	WorkflowsWritten int
	Settings         string // "created" or "updated"
	Gitignore        scaffold.GitignoreResult

	// Accumulated warnings (non-fatal)
	Warnings []Warning
}

// SetupService defines the step implementations for the setup pipeline.
// Each method corresponds to a pipeline step executed in order.
// Implementations are injected to allow testing without a real filesystem.
type SetupService interface {
	// Scan inspects the project and records ProjectInfo.
	Scan(ctx context.Context, st *SetupState) error

	// BuildConfig derives the config from the role selection and the scan.
	BuildConfig(ctx context.Context, st *SetupState) error

	// SaveConfig validates and writes .tramy/config.yaml.
	SaveConfig(ctx context.Context, st *SetupState) error

	// CreateOutputDirs creates output directories in single-role mode.
	CreateOutputDirs(ctx context.Context, st *SetupState) error

	// WriteClaudeMD renders the project CLAUDE.md.
	WriteClaudeMD(ctx context.Context, st *SetupState) error

	// Prune removes generated files of roles and workflows no longer enabled.
	Prune(ctx context.Context, st *SetupState) error

	// WriteAgents writes one agent file per enabled role.
	WriteAgents(ctx context.Context, st *SetupState) error

	// WriteCommands writes one command file per enabled role command.
	WriteCommands(ctx context.Context, st *SetupState) error

	// WriteWorkflows writes the runbooks of fully enabled workflows.
	WriteWorkflows(ctx context.Context, st *SetupState) error

	// MergeSettings merges the prompt hook into .claude/settings.json.
	MergeSettings(ctx context.Context, st *SetupState) error

	// UpdateGitignore keeps local assistant settings out of version control.
	UpdateGitignore(ctx context.Context, st *SetupState) error
}

// Pipeline orchestrates the execution of setup steps in a fixed order.
type Pipeline struct {
	svc SetupService
}

// NewPipeline creates a pipeline with the given service implementation.
func NewPipeline(svc SetupService) *Pipeline {
	return &Pipeline{svc: svc}
}

type step struct {
	name string
	run  func(context.Context, *SetupState) error
}

// Run executes the pipeline steps in fixed order:
//  1. Scan
//  2. BuildConfig
//  3. SaveConfig
//  4. CreateOutputDirs
//  5. WriteClaudeMD
//  6. Prune
//  7. WriteAgents
//  8. WriteCommands
//  9. WriteWorkflows
//  10. MergeSettings
//  11. UpdateGitignore
//
// Behavior:
//   - Executes steps in order; short-circuits on first error
//   - If error is *TramyError, preserves code/message/details exactly
//   - If error is not *TramyError, wraps into *TramyError with:
//     Code = E_INTERNAL, Message = "internal error", Cause = original error,
//     Details = map[string]string{"step": "<StepName>"}
//   - A canceled context stops the pipeline before the next step
//   - Returns the state reached so far, even on error
func (p *Pipeline) Run(ctx context.Context, opts SetupOpts) (*SetupState, error) {
	st := &SetupState{
		Layout:      paths.New(opts.Root),
		RoleIDs:     opts.RoleIDs,
		DefaultRole: opts.DefaultRole,
		SingleRole:  opts.SingleRole,
		NoGitignore: opts.NoGitignore,
	}

	steps := []step{
		{StepScan, p.svc.Scan},
		{StepBuildConfig, p.svc.BuildConfig},
		{StepSaveConfig, p.svc.SaveConfig},
		{StepCreateOutputDirs, p.svc.CreateOutputDirs},
		{StepWriteClaudeMD, p.svc.WriteClaudeMD},
		{StepPrune, p.svc.Prune},
		{StepWriteAgents, p.svc.WriteAgents},
		{StepWriteCommands, p.svc.WriteCommands},
		{StepWriteWorkflows, p.svc.WriteWorkflows},
		{StepMergeSettings, p.svc.MergeSettings},
		{StepUpdateGitignore, p.svc.UpdateGitignore},
	}

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			return st, wrapStepError(err, s.name)
		}
		logging.Debug().Str("step", s.name).Msg("pipeline: running step")
		if err := s.run(ctx, st); err != nil {
			return st, wrapStepError(err, s.name)
		}
	}
	return st, nil
}

// wrapStepError ensures the error is a *TramyError.
// If already *TramyError, returns it unchanged.
// Otherwise wraps it with E_INTERNAL and step name in details.
func wrapStepError(err error, stepName string) error {
	if err == nil {
		return nil
	}

	if _, ok := errors.AsTramyError(err); ok {
		return err
	}

	return errors.WrapWithDetails(
		errors.EInternal,
		"internal error",
		err,
		map[string]string{"step": stepName},
	)
}

// Step name constants.
const (
	StepScan             = "Scan"
	StepBuildConfig      = "BuildConfig"
	StepSaveConfig       = "SaveConfig"
	StepCreateOutputDirs = "CreateOutputDirs"
	StepWriteClaudeMD    = "WriteClaudeMD"
	StepPrune            = "Prune"
	StepWriteAgents      = "WriteAgents"
	StepWriteCommands    = "WriteCommands"
	StepWriteWorkflows   = "WriteWorkflows"
	StepMergeSettings    = "MergeSettings"
	StepUpdateGitignore  = "UpdateGitignore"
)
