package term

import (
	"fmt"
	"io"
)

// =============================================================================
// Line - Sequential Status Line
// =============================================================================

// Line renders a single status line for sequential output (the
// full-status walk). It follows the same two-phase contract as board
// rows but owns the cursor line it is printed on, so it needs no
// coordination with other rows.
type Line struct {
	w         io.Writer
	tty       bool
	prefix    string
	committed string
}

// NewLine starts a new status line with a fixed prefix.
func NewLine(w io.Writer, prefix string) *Line {
	l := &Line{w: w, tty: isTerminal(w), prefix: prefix}
	if l.tty {
		fmt.Fprintf(w, "\r\x1b[2K%s ", prefix)
	}
	return l
}

// Pending shows a transient status. Dropped outside terminals.
func (l *Line) Pending(msg string) {
	if l.tty {
		l.redraw(msg)
	}
}

// Commit appends terminal status text to the line.
func (l *Line) Commit(msg string) {
	l.committed += msg
	if l.tty {
		l.redraw("")
	}
}

// Close finishes the line. Outside terminals this is where the line is
// actually printed.
func (l *Line) Close() {
	if l.tty {
		fmt.Fprintln(l.w)
		return
	}
	fmt.Fprintf(l.w, "%s %s\n", l.prefix, l.committed)
}

func (l *Line) redraw(pending string) {
	fmt.Fprintf(l.w, "\r\x1b[2K%s %s%s", l.prefix, l.committed, pending)
}
