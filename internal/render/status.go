package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Status is the outcome of one doctor check.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
	StatusInfo Status = "info"
)

// Check is one line of a doctor report.
type Check struct {
	Name   string
	Status Status
	Detail string
}

var statusColors = map[Status]*color.Color{
	StatusOK:   color.New(color.FgGreen),
	StatusWarn: color.New(color.FgYellow),
	StatusFail: color.New(color.FgRed, color.Bold),
	StatusInfo: color.New(color.FgCyan),
}

// WriteChecks writes one "<status> <name>: <detail>" line per check. The
// status column is padded before coloring so columns line up with or
// without color.
func WriteChecks(w io.Writer, checks []Check) error {
	for _, c := range checks {
		status := fmt.Sprintf("%-4s", c.Status)
		if col, ok := statusColors[c.Status]; ok {
			status = col.Sprint(status)
		}
		line := status + " " + c.Name
		if c.Detail != "" {
			line += ": " + c.Detail
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Failed reports whether any check failed.
func Failed(checks []Check) bool {
	for _, c := range checks {
		if c.Status == StatusFail {
			return true
		}
	}
	return false
}
