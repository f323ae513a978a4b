package excel

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"salespanel/logger"
)

// macroName is the beautification macro embedded in the export template.
const macroName = "BeautifySheet"

// MacroRunner runs the template's beautification macro against a populated
// workbook on disk. StripMacro reports whether the macro payload should be
// removed from the final output afterwards.
type MacroRunner interface {
	Run(path string) error
	StripMacro() bool
}

// RunnerForOS returns the macro runner for the host platform: on Windows the
// macro is executed through the local Excel installation and stripped from
// the output, elsewhere the macro-enabled file is returned unmodified and the
// macro runs when the user opens it.
func RunnerForOS() MacroRunner {
	if runtime.GOOS == "windows" {
		return &ScriptMacroRunner{Timeout: 30 * time.Second}
	}
	return NoopMacroRunner{}
}

// NoopMacroRunner keeps the macro-enabled workbook as-is.
type NoopMacroRunner struct{}

func (NoopMacroRunner) Run(string) error { return nil }

func (NoopMacroRunner) StripMacro() bool { return false }

// ScriptMacroRunner drives the host's Excel installation through a generated
// cscript automation script to run the beautification macro in place.
type ScriptMacroRunner struct {
	Timeout time.Duration
}

func (r *ScriptMacroRunner) StripMacro() bool { return true }

func (r *ScriptMacroRunner) Run(path string) error {
	script := buildMacroScript(path)

	scriptPath := filepath.Join(os.TempDir(), fmt.Sprintf("run_macro_%s.vbs", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(scriptPath, []byte(script), 0o600); err != nil {
		return err
	}
	defer removeWithRetry(scriptPath)

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "cscript", "//NoLogo", scriptPath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("run macro script: %w (output: %s)", err, strings.TrimSpace(string(output)))
	}
	logger.Debugf("macro script finished: %s", strings.TrimSpace(string(output)))
	return nil
}

func buildMacroScript(workbookPath string) string {
	safePath := strings.ReplaceAll(workbookPath, `\`, `\\`)
	return fmt.Sprintf(`Set objExcel = CreateObject("Excel.Application")
objExcel.Visible = False
objExcel.DisplayAlerts = False

Set objWorkbook = objExcel.Workbooks.Open("%s")
objExcel.Run "%s"
WScript.Sleep 2000
objWorkbook.Save
objWorkbook.Close False
objExcel.Quit
`, safePath, macroName)
}

// removeWithRetry deletes a temp file, retrying briefly to ride out
// transient file locks held by the spreadsheet application.
func removeWithRetry(path string) {
	const attempts = 3
	for i := 0; i < attempts; i++ {
		err := os.Remove(path)
		if err == nil || os.IsNotExist(err) {
			return
		}
		if i == attempts-1 {
			logger.Warningf("failed to remove temp file %s: %v", path, err)
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
}
