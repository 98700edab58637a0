package backend

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"
)

// Report prints the status of every backend p lists, in listing order:
//
//	 NAME : ibmq_qasm_simulator
//	 STATUS:
//	    backend_name    = ibmq_qasm_simulator
//	    backend_version = 0.1.547
//	    status_msg      = active
//	    pending_jobs    = 0
//	    operational     = true
//
// No backends means no output. The first provider error stops the report.
func Report(ctx context.Context, w io.Writer, p Provider) error {
	names, err := p.Backends(ctx)
	if err != nil {
		return errors.Wrap(err, "report")
	}
	for _, name := range names {
		st, err := status(ctx, p, name)
		if err != nil {
			return errors.Wrap(err, "report")
		}
		if _, err := fmt.Fprintf(w, " NAME : %s\n STATUS:\n", name); err != nil {
			return err
		}
		for _, f := range fields(st) {
			if _, err := fmt.Fprintf(w, "    %-15s = %s\n", f[0], f[1]); err != nil {
				return err
			}
		}
	}
	return nil
}

// status fetches one backend status, rejecting empty replies.
func status(ctx context.Context, p Provider, name string) (*Status, error) {
	st, err := p.Status(ctx, name)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, errors.Wrapf(ErrNoStatus, "backend %q", name)
	}
	return st, nil
}

func fields(st *Status) [][2]string {
	return [][2]string{
		{"backend_name", st.BackendName},
		{"backend_version", st.BackendVersion},
		{"status_msg", st.StatusMsg},
		{"pending_jobs", strconv.Itoa(st.PendingJobs)},
		{"operational", strconv.FormatBool(st.Operational)},
	}
}

// Table writes the same data as Report as a styled table, one row per
// backend. Styles are resolved against w, so plain writers get plain text.
func Table(ctx context.Context, w io.Writer, p Provider) error {
	names, err := p.Backends(ctx)
	if err != nil {
		return errors.Wrap(err, "table")
	}
	if len(names) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(names))
	down := make(map[int]bool)
	for i, name := range names {
		st, err := status(ctx, p, name)
		if err != nil {
			return errors.Wrap(err, "table")
		}
		row := []string{name}
		for _, f := range fields(st) {
			row = append(row, f[1])
		}
		rows = append(rows, row)
		down[i] = !st.Operational
	}

	re := lipgloss.NewRenderer(w)
	headerStyle := re.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1)
	cellStyle := re.NewStyle().Padding(0, 1)
	downStyle := cellStyle.Foreground(lipgloss.Color("196"))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(re.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("NAME", "BACKEND", "VERSION", "STATUS", "PENDING", "OPERATIONAL").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case down[row]:
				return downStyle
			default:
				return cellStyle
			}
		})

	_, err = fmt.Fprintln(w, t.Render())
	return err
}
