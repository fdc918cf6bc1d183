// Package commands implements tramy CLI commands.
package commands

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/tramy-dev/tramy/internal/config"
	"github.com/tramy-dev/tramy/internal/errors"
	"github.com/tramy-dev/tramy/internal/fs"
	"github.com/tramy-dev/tramy/internal/lock"
	"github.com/tramy-dev/tramy/internal/logging"
	"github.com/tramy-dev/tramy/internal/paths"
	"github.com/tramy-dev/tramy/internal/roles"
)

// Hints attached to user-facing errors.
const (
	hintSetup      = "run 'tramy setup'"
	hintRoleList   = "run 'tramy role list'"
	hintWorkflowLs = "run 'tramy workflow list'"
)

// Prompter asks the user a yes/no question.
type Prompter interface {
	Confirm(question string) (bool, error)
}

// StdinPrompter reads answers line by line from In. Anything other than
// "y" or "yes" (case-insensitive) is a no, including end of input.
type StdinPrompter struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

// NewStdinPrompter creates a prompter over in and out.
func NewStdinPrompter(in io.Reader, out io.Writer) *StdinPrompter {
	return &StdinPrompter{In: in, Out: out}
}

// Confirm writes question and reads one answer line.
func (p *StdinPrompter) Confirm(question string) (bool, error) {
	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	fmt.Fprint(p.Out, question+" ")
	line, err := p.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, errors.Wrap(errors.EInternal, "failed to read answer", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// requireInit loads the config of an initialized project.
func requireInit(fsys fs.FS, root string) (config.Config, error) {
	if !config.IsInitialized(fsys, root) {
		return config.Config{}, errors.NewWithHint(errors.ENotInitialized,
			"project is not initialized", hintSetup)
	}
	return config.Load(fsys, root)
}

// resolveRole resolves an alias or id, failing with E_UNKNOWN_ROLE.
func resolveRole(ref string) (roles.Role, error) {
	res := roles.Resolve(ref)
	if !res.Found {
		return roles.Role{}, errors.NewWithHint(errors.EUnknownRole,
			fmt.Sprintf("unknown role %q", strings.TrimSpace(ref)), hintRoleList)
	}
	return res.Role, nil
}

// enabledSet indexes role ids.
func enabledSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

// withProjectLock runs fn while holding the project's setup lock.
func withProjectLock(fsys fs.FS, root, cmd string, fn func() error) error {
	if !fs.IsDir(fsys, root) {
		return errors.New(errors.EScanFailed, "cannot read project directory "+root)
	}
	unlock, err := lock.New(fsys, paths.New(root).LockFile()).Lock(cmd)
	if err != nil {
		var locked *lock.ErrLocked
		if stderrors.As(err, &locked) {
			return errors.WrapWithDetails(errors.EProjectLocked,
				"another tramy command is writing to this project", err,
				map[string]string{errors.HintKey: "wait for it to finish or remove " + locked.Path})
		}
		return errors.Wrap(errors.EWriteFailed, "failed to acquire project lock", err)
	}
	defer func() {
		if err := unlock(); err != nil {
			logging.Warn().Err(err).Msg("lock: release failed")
		}
	}()
	return fn()
}
