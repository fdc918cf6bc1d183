package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// RoleRow holds the fields for a single role list row.
type RoleRow struct {
	Alias   string
	ID      string
	Name    string
	Enabled bool
	Default bool
}

// WorkflowRow holds the fields for a single workflow list row.
type WorkflowRow struct {
	ID    string
	Name  string
	Roles []string
}

// WriteRoleTable writes the role list in human-readable format.
func WriteRoleTable(w io.Writer, rows []RoleRow) error {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		enabled := "no"
		if r.Enabled {
			enabled = "yes"
		}
		if r.Default {
			enabled += " (default)"
		}
		cells[i] = []string{r.Alias, r.ID, r.Name, enabled}
	}
	return writeTable(w, []string{"ALIAS", "ID", "NAME", "ENABLED"}, cells)
}

// WriteWorkflowTable writes the workflow list in human-readable format.
func WriteWorkflowTable(w io.Writer, rows []WorkflowRow) error {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{r.ID, r.Name, strings.Join(r.Roles, ", ")}
	}
	return writeTable(w, []string{"ID", "NAME", "ROLES"}, cells)
}

// writeTable writes whitespace-separated columns sized to their widest
// cell. The last column is not padded. Nothing is written for no rows.
func writeTable(w io.Writer, header []string, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}

	widths := columnWidths(header, rows)
	if _, err := fmt.Fprintln(w, formatRow(header, widths)); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, formatRow(row, widths)); err != nil {
			return err
		}
	}
	return nil
}

// columnWidths calculates the maximum rune width for each column.
func columnWidths(header []string, rows [][]string) []int {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}
	return widths
}

// formatRow pads every cell but the last to its column width, two spaces apart.
func formatRow(cells []string, widths []int) string {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(cell)
		if i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)))
		}
	}
	return b.String()
}
