// Package job contains the cron jobs the web server schedules.
package job

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"salespanel/logger"
)

// maxTempAge is how long an export workbook or macro script may sit in the
// temp directory before the sweep removes it.
const maxTempAge = 24 * time.Hour

// CleanExportTempJob removes leftover export workbooks and macro scripts
// from the system temp directory. Exports clean up after themselves, but a
// crash mid-export or a locked file on Windows can leave strays behind.
type CleanExportTempJob struct{}

func NewCleanExportTempJob() *CleanExportTempJob {
	return new(CleanExportTempJob)
}

// Here Run is an interface method of the Job interface
func (j *CleanExportTempJob) Run() {
	tempDir := os.TempDir()
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		logger.Warning("clean export temp job err:", err)
		return
	}

	cutoff := time.Now().Add(-maxTempAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !isExportTemp(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(tempDir, entry.Name())
		if err := os.Remove(path); err != nil {
			logger.Warning("clean export temp job err:", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		logger.Infof("clean export temp job removed %d stale file(s)", removed)
	}
}

func isExportTemp(name string) bool {
	if strings.HasPrefix(name, "salespanel_export_") {
		return true
	}
	return strings.HasPrefix(name, "run_macro_") && strings.HasSuffix(name, ".vbs")
}
