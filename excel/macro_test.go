package excel

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunnerForOS(t *testing.T) {
	runner := RunnerForOS()
	if runtime.GOOS == "windows" {
		assert.True(t, runner.StripMacro())
	} else {
		assert.False(t, runner.StripMacro())
	}
}

func TestNoopMacroRunner(t *testing.T) {
	runner := NoopMacroRunner{}
	assert.NoError(t, runner.Run("whatever.xlsm"))
	assert.False(t, runner.StripMacro())
}

func TestBuildMacroScript(t *testing.T) {
	script := buildMacroScript(`C:\Temp\export.xlsm`)
	assert.Contains(t, script, `C:\\Temp\\export.xlsm`)
	assert.Contains(t, script, macroName)
	assert.Contains(t, script, "objWorkbook.Save")
	assert.Contains(t, script, "objExcel.Quit")
}
