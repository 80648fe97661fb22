package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	calls    [][]string
	reported []error
	printed  []string
	failOn   string
}

func (f *fakeExec) Execute(_ context.Context, args []string) error {
	f.calls = append(f.calls, args)
	if args[0] == f.failOn {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeExec) report(_ context.Context, err error) { f.reported = append(f.reported, err) }

func (f *fakeExec) println(args ...any) { f.printed = append(f.printed, fmt.Sprint(args...)) }

func TestRunREPL_DispatchesUntilExit(t *testing.T) {
	input := strings.NewReader(strings.Join([]string{
		"help",
		"",
		"transact 1 expense food 1 2024",
		"shell",
		"report --year 2024",
		"exit",
		"list",
	}, "\n"))

	exec := &fakeExec{failOn: "report"}
	runREPL(context.Background(), exec, func(context.Context) string { return "alice" }, bufio.NewReader(input))

	require.Len(t, exec.calls, 3)
	assert.Equal(t, []string{"help"}, exec.calls[0])
	assert.Equal(t, []string{"transact", "1", "expense", "food", "1", "2024"}, exec.calls[1])
	assert.Equal(t, []string{"report", "--year", "2024"}, exec.calls[2])

	require.Len(t, exec.reported, 1, "failing command is reported, loop continues")
	assert.Contains(t, exec.printed, "Already in the shell")
	assert.Contains(t, exec.printed, "fintrack (alice)> ")
	assert.Equal(t, "Bye!", exec.printed[len(exec.printed)-1])
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func(context.Context) string { return "" }, bufio.NewReader(strings.NewReader("whoami")))

	require.Len(t, exec.calls, 1)
	assert.Equal(t, "fintrack> ", exec.printed[0])
}

func TestShell_EndToEnd(t *testing.T) {
	h := newHarness(t)
	h.app.reader = bufio.NewReader(strings.NewReader(strings.Join([]string{
		"register alice pw1",
		"login alice pw1",
		"transact 5 expense food 1 2024",
		"report",
		"quit",
	}, "\n")))

	out := h.mustRun(t, "shell")
	assert.Contains(t, out, "fintrack (alice)> ")
	assert.Contains(t, out, "Save this transaction ID for later use: 1")
	assert.Contains(t, out, "expense : 5\nsavings : -5\n")
	assert.Contains(t, out, "Bye!")
}

func TestShell_AskRemediationReadsAnswersFromShellInput(t *testing.T) {
	h := newHarness(t)
	h.app.reader = bufio.NewReader(strings.NewReader(strings.Join([]string{
		"register alice pw1",
		"login alice pw1",
		"set-budget 50 food",
		"transact 70 expense food 6 2024 --on-exceed=ask",
		"1",
		"25",
		"budgets",
		"exit",
	}, "\n")))

	out := h.mustRun(t, "shell")
	assert.Contains(t, out, "Raise it (1), delete it (2) or cancel (Enter)")
	assert.Contains(t, out, "Budget for food raised to 75")
	assert.Contains(t, out, "Save this transaction ID for later use: 1")
	assert.Contains(t, out, "food : 5\n")
	assert.NotContains(t, h.errOut.String(), "unknown command")
	assert.Contains(t, out, "Bye!")
}
