package job

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"salespanel/logger"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logDir, err := os.MkdirTemp("", "salespanel_test_logs")
	if err != nil {
		panic(err)
	}
	os.Setenv("SP_LOG_FOLDER", logDir)
	logger.InitLogger(logging.ERROR)

	code := m.Run()

	logger.CloseLogger()
	os.RemoveAll(logDir)
	os.Exit(code)
}

func touch(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	stamp := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, stamp, stamp))
	return path
}

func TestCleanExportTempJob(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("TMPDIR", tempDir)

	staleExport := touch(t, tempDir, "salespanel_export_20240101_000000_abcd1234.xlsm", 48*time.Hour)
	staleScript := touch(t, tempDir, "run_macro_20240101_000000.vbs", 48*time.Hour)
	freshExport := touch(t, tempDir, "salespanel_export_20260828_120000_ffff0000.xlsm", time.Minute)
	unrelated := touch(t, tempDir, "keep_me.txt", 48*time.Hour)

	NewCleanExportTempJob().Run()

	assert.NoFileExists(t, staleExport)
	assert.NoFileExists(t, staleScript)
	assert.FileExists(t, freshExport)
	assert.FileExists(t, unrelated)
}

func TestIsExportTemp(t *testing.T) {
	assert.True(t, isExportTemp("salespanel_export_20240101_000000_abcd1234.xlsm"))
	assert.True(t, isExportTemp("run_macro_20240101_000000.vbs"))
	assert.False(t, isExportTemp("run_macro_notes.txt"))
	assert.False(t, isExportTemp("export.xlsm"))
}
