package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/core"
	apphttp "expensetracker/internal/http"
)

// run executes one CLI invocation against dbPath and returns stdout.
func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := newApp(&out, &errOut)
	err := a.execute(context.Background(), append([]string{"--db", dbPath, "--log-level", "error"}, args...))
	return out.String(), err
}

func mustRun(t *testing.T, dbPath string, args ...string) string {
	t.Helper()
	out, err := run(t, dbPath, args...)
	require.NoError(t, err)
	return out
}

func TestAddListSummary(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ledger.db")

	out := mustRun(t, db, "add", "12.50", "Food", "--note", "lunch")
	assert.Contains(t, out, "Added expense #1: 12.50 Food on ")
	assert.Contains(t, out, "(lunch)")

	mustRun(t, db, "add", "3,2", "  Coffee ")
	mustRun(t, db, "add", "7.5", "Food")

	out = mustRun(t, db, "list")
	assert.Contains(t, out, "Coffee")
	assert.Contains(t, out, "All: 3 expenses, total 23.20")

	out = mustRun(t, db, "summary", "--window", "all")
	assert.Contains(t, out, "All: 3 expenses, total 23.20")
	assert.Regexp(t, `Food\s+20.00`, out)
	assert.Regexp(t, `Coffee\s+3.20`, out)

	// Everything was added today, so it is also in the current week.
	out = mustRun(t, db, "list", "--window", "week")
	assert.Contains(t, out, "This Week: 3 expenses, total 23.20")
}

func TestListJSON(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ledger.db")
	mustRun(t, db, "add", "1", "A")
	mustRun(t, db, "add", "2", "B")

	var view apphttp.ViewJSON
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, db, "--json", "list")), &view))
	assert.Equal(t, 2, view.Count)
	assert.Equal(t, "3.00", view.Total)
	require.Len(t, view.Expenses, 2)
	assert.Equal(t, int64(2), view.Expenses[0].ID)
}

func TestEditAndRemove(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ledger.db")
	mustRun(t, db, "add", "5", "Bus", "--note", "ticket")

	out := mustRun(t, db, "edit", "1", "6.40", "Train")
	assert.Contains(t, out, "Updated expense #1: 6.40 Train")
	assert.NotContains(t, out, "ticket")

	_, err := run(t, db, "edit", "9", "1", "X")
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.Contains(t, mustRun(t, db, "rm", "1"), "Removed expense #1")
	assert.Contains(t, mustRun(t, db, "rm", "1"), "Removed expense #1")
	assert.Contains(t, mustRun(t, db, "list"), "No expenses")
}

func TestValidationFailures(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ledger.db")

	_, err := run(t, db, "add", "abc", "Food")
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = run(t, db, "add", "0", "Food")
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = run(t, db, "add", "4", " ")
	assert.ErrorIs(t, err, core.ErrEmptyCategory)

	_, err = run(t, db, "list", "--window", "year")
	assert.ErrorIs(t, err, core.ErrInvalidWindow)

	_, err = run(t, db, "rm", "x")
	assert.ErrorContains(t, err, "invalid expense id")

	_, err = run(t, db, "add", "1")
	assert.Error(t, err)

	assert.Contains(t, mustRun(t, db, "list"), "No expenses")
}

func TestReset(t *testing.T) {
	db := filepath.Join(t.TempDir(), "ledger.db")
	mustRun(t, db, "add", "1", "A")

	_, err := run(t, db, "reset")
	assert.ErrorContains(t, err, "--yes")
	assert.Contains(t, mustRun(t, db, "list"), "All: 1 expenses")

	assert.Equal(t, "Ledger at "+db+" reset to schema version 3\n", mustRun(t, db, "reset", "--yes"))
	assert.Contains(t, mustRun(t, db, "list"), "No expenses")

	_, err = run(t, db, "--backend", "memory", "reset", "--yes")
	assert.ErrorContains(t, err, "sqlite backend")
}

func TestInvalidBackendFlag(t *testing.T) {
	_, err := run(t, filepath.Join(t.TempDir(), "ledger.db"), "--backend", "sheets", "list")
	assert.ErrorContains(t, err, "invalid data backend")
}

func TestVersion(t *testing.T) {
	out := mustRun(t, "", "version")
	assert.Equal(t, "expensetracker dev\n", out)
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestServeStopsOnCancel(t *testing.T) {
	port := freePort(t)
	t.Setenv("PORT", strconv.Itoa(port))

	var out bytes.Buffer
	a := newApp(&out, &out)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- a.execute(ctx, []string{"--backend", "memory", "--log-level", "error", "serve"})
	}()

	url := "http://127.0.0.1:" + strconv.Itoa(port) + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}
