package term

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// =============================================================================
// Board - Concurrent Status Rows
// =============================================================================

// Board is the rendering surface for a play: a header line plus one row
// per container. Rows are updated concurrently by play workers; all
// rendering happens under the board's lock.
//
// On a terminal, rows are redrawn in place with cursor moves. On any
// other writer (pipes, test buffers), pending updates are dropped and
// each commit prints the row's current state as a plain line.
type Board struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	header string
	rows   []boardRow
	tty    bool
}

type boardRow struct {
	prefix    string
	committed string
	pending   string
}

// NewBoard creates a board with the given number of rows. header is
// printed by Start. errOut receives the final diagnostic line of a
// failed play.
func NewBoard(out, errOut io.Writer, header string, rows int) *Board {
	return &Board{
		out:    out,
		errOut: errOut,
		header: header,
		rows:   make([]boardRow, rows),
		tty:    isTerminal(out),
	}
}

// Start prints the header and, on terminals, reserves one line per row.
func (b *Board) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()

	fmt.Fprintln(b.out, b.header)
	if b.tty {
		for range b.rows {
			fmt.Fprintln(b.out)
		}
	}
}

// Stop finalizes rendering. In-place rows are already on screen; append
// mode has printed every commit as it happened.
func (b *Board) Stop() {}

// Error writes the single diagnostic line for a failed play.
func (b *Board) Error(err error) {
	fmt.Fprintf(b.errOut, "%v\n", err)
}

// Row returns the reporter for row i with the given fixed prefix.
func (b *Board) Row(i int, prefix string) *RowReporter {
	b.mu.Lock()
	b.rows[i].prefix = prefix
	b.mu.Unlock()
	return &RowReporter{board: b, row: i}
}

// render redraws row i in place. Callers must hold the lock.
func (b *Board) render(i int) {
	if !b.tty {
		return
	}
	up := len(b.rows) - i
	fmt.Fprintf(b.out, "\x1b[%dA\r\x1b[2K%s\x1b[%dB\r", up, b.rowText(i), up)
}

func (b *Board) rowText(i int) string {
	r := b.rows[i]
	text := r.prefix + " " + r.committed
	if r.pending != "" {
		text += r.pending
	}
	return text
}

// =============================================================================
// RowReporter - Two-Phase Row Updates
// =============================================================================

// RowReporter is the per-container output handle handed to tasks. It
// implements the engine's two-phase reporting contract: Pending shows a
// transient status, Commit accumulates terminal status text.
type RowReporter struct {
	board *Board
	row   int
}

// Pending announces a transient status for the row. Dropped outside
// terminals.
func (r *RowReporter) Pending(msg string) {
	b := r.board
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rows[r.row].pending = msg
	b.render(r.row)
}

// Commit appends terminal status text to the row and clears any pending
// status. Outside terminals the row's current state is printed as a
// plain line.
func (r *RowReporter) Commit(msg string) {
	b := r.board
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rows[r.row].committed += msg
	b.rows[r.row].pending = ""
	if b.tty {
		b.render(r.row)
	} else {
		fmt.Fprintln(b.out, b.rowText(r.row))
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
