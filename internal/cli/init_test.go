package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/config"
	"expensetracker/internal/core"
)

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := SetupLogger("debug", &buf)
	require.NoError(t, err)

	logger.Debug("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "component=app")

	_, err = SetupLogger("loud", &buf)
	assert.Error(t, err)
}

func TestLoadAndValidateConfig(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "expensetracker.yaml")
	require.NoError(t, os.WriteFile(file, []byte("data_backend: memory\nweek_start: monday\n"), 0o644))

	cfg, err := LoadAndValidateConfig(config.NewViper(), file)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.DataBackend)
	assert.Equal(t, "monday", cfg.WeekStart)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("data_backend: sheets\n"), 0o644))
	_, err = LoadAndValidateConfig(config.NewViper(), bad)
	assert.ErrorContains(t, err, "invalid data backend")
}

func TestOpenLedgerMemory(t *testing.T) {
	cfg := &config.Config{DataBackend: "memory", WeekStart: "monday", Timezone: "UTC"}
	svc, err := OpenLedger(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer svc.Close()

	_, err = svc.AddExpense(context.Background(), "3.20", "Coffee", "")
	require.NoError(t, err)

	view, err := svc.View(context.Background(), core.WindowAll)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Count)
	assert.Equal(t, int64(320), view.Total.Cents)
}

func TestOpenLedgerSQLite(t *testing.T) {
	cfg := &config.Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: filepath.Join(t.TempDir(), "nested", "ledger.db"),
		WeekStart:    "sunday",
		Timezone:     "UTC",
	}
	svc, err := OpenLedger(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NoError(t, svc.Close())
	assert.FileExists(t, cfg.SQLiteDBPath)
}

func TestOpenLedgerRejectsUnknownBackend(t *testing.T) {
	_, err := OpenLedger(context.Background(), &config.Config{DataBackend: "sheets"}, nil)
	assert.Error(t, err)
}
