package excel

import (
	"os"
	"path/filepath"
	"testing"

	"salespanel/database/model"
	"salespanel/logger"

	"github.com/op/go-logging"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
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

// writeTemplate creates a minimal macro-free template workbook. The pipeline
// only needs the template sheet to exist; macro behavior is driven by the
// injected runner.
func writeTemplate(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	_, err := f.NewSheet(templateSheet)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "record_template.xlsm")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDerive(t *testing.T) {
	rec := &model.Record{
		Quantity:          10,
		UnitPrice:         dec("100"),
		UnitDiscountRate:  dec("90"),
		OrderDiscountRate: dec("80"),
		Freight:           dec("15"),
		PaidTotal:         dec("500"),
	}

	d := Derive(rec)
	assert.True(t, d.DiscountedUnitPrice.Equal(dec("90")), "discounted unit price: %s", d.DiscountedUnitPrice)
	// stored amount is zero so it falls back to discounted price × quantity
	assert.True(t, d.Amount.Equal(dec("900")), "amount: %s", d.Amount)
	assert.True(t, d.DiscountedAmount.Equal(dec("720")), "discounted amount: %s", d.DiscountedAmount)
	assert.True(t, d.Receivable.Equal(dec("735")), "receivable: %s", d.Receivable)
	assert.True(t, d.Balance.Equal(dec("235")), "balance: %s", d.Balance)
}

func TestDeriveKeepsStoredAmount(t *testing.T) {
	rec := &model.Record{
		Quantity:          3,
		UnitPrice:         dec("10"),
		UnitDiscountRate:  dec("100"),
		Amount:            dec("25"),
		OrderDiscountRate: dec("100"),
	}

	d := Derive(rec)
	assert.True(t, d.Amount.Equal(dec("25")))
	assert.True(t, d.Receivable.Equal(dec("25")))
	assert.True(t, d.Balance.Equal(dec("25")))
}

func TestDeriveZeroRecord(t *testing.T) {
	d := Derive(&model.Record{})
	assert.True(t, d.DiscountedUnitPrice.IsZero())
	assert.True(t, d.Amount.IsZero())
	assert.True(t, d.Balance.IsZero())
}

func TestExportNoColumnsBeforeIO(t *testing.T) {
	e := &Exporter{
		// nonexistent template must not matter: the column check comes first
		TemplatePath: filepath.Join(t.TempDir(), "no_such_template.xlsm"),
		Runner:       NoopMacroRunner{},
	}

	_, err := e.Export(nil, nil)
	assert.ErrorIs(t, err, ErrNoColumns)

	_, err = e.Export(nil, []string{"bogus_column"})
	assert.ErrorIs(t, err, ErrNoColumns)
}

func TestExportMissingTemplate(t *testing.T) {
	e := &Exporter{
		TemplatePath: filepath.Join(t.TempDir(), "no_such_template.xlsm"),
		Runner:       NoopMacroRunner{},
	}

	_, err := e.Export(nil, []string{ColCustomerName})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "导出模板不存在")
}

func TestExportFillsRows(t *testing.T) {
	records := []*model.Record{
		{
			DocDate:           "2024-03-01",
			CustomerName:      "客户甲",
			ProductDesc:       "规格A",
			Quantity:          2,
			UnitPrice:         dec("10.5"),
			UnitDiscountRate:  dec("100"),
			OrderDiscountRate: dec("100"),
		},
		{
			DocDate:           "2024-03-02",
			CustomerName:      "客户乙",
			ProductDesc:       "规格B",
			Quantity:          1,
			UnitPrice:         dec("3"),
			UnitDiscountRate:  dec("100"),
			OrderDiscountRate: dec("100"),
		},
	}

	e := &Exporter{
		TemplatePath: writeTemplate(t),
		Runner:       NoopMacroRunner{},
	}

	result, err := e.Export(records, []string{ColCustomerName, ColUnitPrice, ColQuantity})
	require.NoError(t, err)
	assert.Equal(t, mimeXLSM, result.ContentType)
	assert.Regexp(t, `^records_\d{8}_\d{6}\.xlsm$`, result.Filename)

	out := filepath.Join(t.TempDir(), "out.xlsm")
	require.NoError(t, os.WriteFile(out, result.Data, 0o644))
	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(templateSheet)
	require.NoError(t, err)
	require.Len(t, rows, len(records)+1)

	assert.Equal(t, []string{"客户名称", "单价", "数量"}, rows[0])
	assert.Equal(t, []string{"客户甲", "10.50", "2"}, rows[1])
	assert.Equal(t, []string{"客户乙", "3.00", "1"}, rows[2])
}

// stripRunner mimics the Windows path: no actual macro, but the output is
// downgraded to a plain workbook.
type stripRunner struct{}

func (stripRunner) Run(string) error { return nil }
func (stripRunner) StripMacro() bool { return true }

func TestExportStripsMacroWhenRunnerAsks(t *testing.T) {
	e := &Exporter{
		TemplatePath: writeTemplate(t),
		Runner:       stripRunner{},
	}

	result, err := e.Export(nil, []string{ColCustomerName})
	require.NoError(t, err)
	assert.Equal(t, mimeXLSX, result.ContentType)
	assert.Regexp(t, `^records_\d{8}_\d{6}\.xlsx$`, result.Filename)

	out := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, os.WriteFile(out, result.Data, 0o644))
	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	assert.NoError(t, f.Close())
}

// failingRunner simulates a broken cscript invocation.
type failingRunner struct{}

func (failingRunner) Run(string) error { return assert.AnError }
func (failingRunner) StripMacro() bool { return false }

func TestExportSurvivesMacroFailure(t *testing.T) {
	e := &Exporter{
		TemplatePath: writeTemplate(t),
		Runner:       failingRunner{},
	}

	result, err := e.Export(nil, []string{ColCustomerName})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Data)
}
