package term

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Board Tests (append mode, non-terminal writers)
// =============================================================================

func TestBoard_StartPrintsHeader(t *testing.T) {
	var out bytes.Buffer
	b := NewBoard(&out, &out, "  #  CONTAINER", 2)
	b.Start()

	assert.Equal(t, "  #  CONTAINER\n", out.String())
}

func TestBoard_PendingDroppedCommitPrinted(t *testing.T) {
	var out bytes.Buffer
	b := NewBoard(&out, &out, "header", 1)
	b.Start()

	row := b.Row(0, "  1. web-1")
	row.Pending("waiting...")
	assert.NotContains(t, out.String(), "waiting")

	row.Commit("up")
	assert.Contains(t, out.String(), "  1. web-1 up")
}

func TestBoard_CommitsAccumulate(t *testing.T) {
	var out bytes.Buffer
	b := NewBoard(&out, &out, "header", 1)
	b.Start()

	row := b.Row(0, "  1. web-1")
	row.Commit("abc1234")
	row.Commit(" up")

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Equal(t, "  1. web-1 abc1234 up", lines[len(lines)-1])
}

func TestBoard_ErrorGoesToErrOut(t *testing.T) {
	var out, errOut bytes.Buffer
	b := NewBoard(&out, &errOut, "header", 1)
	b.Error(errors.New("web-1: no such image"))

	assert.Empty(t, out.String())
	assert.Equal(t, "web-1: no such image\n", errOut.String())
}

func TestBoard_ConcurrentCommits(t *testing.T) {
	var out bytes.Buffer
	const rows = 16
	b := NewBoard(&out, &out, "header", rows)
	b.Start()

	var wg sync.WaitGroup
	for i := 0; i < rows; i++ {
		row := b.Row(i, "row")
		wg.Add(1)
		go func() {
			defer wg.Done()
			row.Pending("waiting...")
			row.Commit("done")
		}()
	}
	wg.Wait()

	assert.Equal(t, rows+1, strings.Count(out.String(), "\n"))
}

// =============================================================================
// Line Tests
// =============================================================================

func TestLine_PrintsOnClose(t *testing.T) {
	var out bytes.Buffer
	l := NewLine(&out, "  1. web-1")
	l.Pending("checking container...")
	assert.Empty(t, out.String())

	l.Commit("abc1234")
	l.Commit(" up")
	assert.Empty(t, out.String())

	l.Close()
	assert.Equal(t, "  1. web-1 abc1234 up\n", out.String())
}

// =============================================================================
// Color Tests
// =============================================================================

func TestColorHelpers(t *testing.T) {
	assert.Equal(t, "\x1b[31;1mdown\x1b[;0m", Red("down"))
	assert.Equal(t, "\x1b[32;1mup\x1b[;0m", Green("up"))
	assert.Equal(t, Green("ok"), Color(true, "ok"))
	assert.Equal(t, Red("ok"), Color(false, "ok"))
	assert.Equal(t, "up", Up(true))
	assert.Equal(t, "down", Up(false))
}
