package excel

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"salespanel/database/model"
	"salespanel/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// templateSheet is the sheet the export template populates. Falls back to
// the active sheet when a customized template dropped it.
const templateSheet = "商品信息模板"

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeXLSM = "application/vnd.ms-excel.sheet.macroEnabled.12"
)

// ErrNoColumns is returned when no selected column survives normalization.
// The check happens before any file I/O.
var ErrNoColumns = errors.New("没有可导出的列")

// Exporter populates the macro-enabled template with records and packages
// the final workbook. The zero Runner defaults to the host platform's.
type Exporter struct {
	TemplatePath string
	UploadDir    string
	Runner       MacroRunner
}

// Result is a finished export: the workbook bytes plus the download
// filename and MIME type matching the container format.
type Result struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Derived holds the values computed from a record's raw columns at export
// time. Discount rates are percentages, 100 meaning no discount.
type Derived struct {
	DiscountedUnitPrice decimal.Decimal
	Amount              decimal.Decimal
	DiscountedAmount    decimal.Decimal
	Receivable          decimal.Decimal
	Balance             decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Derive computes the export-time arithmetic for one record. A zero stored
// amount falls back to discounted unit price × quantity.
func Derive(rec *model.Record) Derived {
	d := Derived{}
	d.DiscountedUnitPrice = rec.UnitPrice.Mul(rec.UnitDiscountRate).Div(hundred)
	d.Amount = rec.Amount
	if d.Amount.IsZero() {
		d.Amount = d.DiscountedUnitPrice.Mul(decimal.NewFromInt(int64(rec.Quantity)))
	}
	d.DiscountedAmount = d.Amount.Mul(rec.OrderDiscountRate).Div(hundred)
	d.Receivable = d.DiscountedAmount.Add(rec.Freight)
	d.Balance = d.Receivable.Sub(rec.PaidTotal)
	return d
}

// Export fills the template with the given records and selected columns and
// returns the packaged workbook. All temp files are cleaned up regardless of
// the outcome.
func (e *Exporter) Export(records []*model.Record, columns []string) (*Result, error) {
	cols := NormalizeColumns(columns)
	if len(cols) == 0 {
		return nil, ErrNoColumns
	}

	if _, err := os.Stat(e.TemplatePath); err != nil {
		return nil, fmt.Errorf("导出模板不存在: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	tmpPath := filepath.Join(os.TempDir(),
		fmt.Sprintf("salespanel_export_%s_%s.xlsm", timestamp, uuid.New().String()[:8]))
	if err := copyFile(e.TemplatePath, tmpPath); err != nil {
		return nil, err
	}
	defer removeWithRetry(tmpPath)

	if err := e.fillTemplate(tmpPath, records, cols); err != nil {
		return nil, err
	}

	runner := e.Runner
	if runner == nil {
		runner = RunnerForOS()
	}

	// Macro failure degrades to best-effort output, never aborts the export.
	if err := runner.Run(tmpPath); err != nil {
		logger.Warningf("美化宏执行失败，导出继续: %v", err)
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, err
	}

	if runner.StripMacro() {
		plain, err := StripMacroPayload(data)
		if err != nil {
			return nil, err
		}
		return &Result{
			Data:        plain,
			Filename:    fmt.Sprintf("records_%s.xlsx", timestamp),
			ContentType: mimeXLSX,
		}, nil
	}

	return &Result{
		Data:        data,
		Filename:    fmt.Sprintf("records_%s.xlsm", timestamp),
		ContentType: mimeXLSM,
	}, nil
}

// fillTemplate writes headers, data rows, embedded images, and column widths
// into the workbook at path.
func (e *Exporter) fillTemplate(path string, records []*model.Record, cols []string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sheet := pickSheet(f)
	if err := clearTemplateResidue(f, sheet); err != nil {
		return err
	}

	headerStyle, dataStyle, err := newCellStyles(f)
	if err != nil {
		return err
	}

	for i, key := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, DisplayName(key)); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for rowOffset, rec := range records {
		row := rowOffset + 2
		for i, key := range cols {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return err
			}
			if key == ColImage {
				e.embedImage(f, sheet, cell, row, rec.ImagePath)
				continue
			}
			if err := f.SetCellValue(sheet, cell, cellValue(rec, key)); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, cell, dataStyle); err != nil {
				return err
			}
		}
	}

	for i, key := range cols {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, ColumnWidth(key)); err != nil {
			return err
		}
	}

	return f.Save()
}

// embedImage resolves the stored image reference and anchors the picture at
// the cell. An unresolvable image leaves the cell empty and is not an error.
func (e *Exporter) embedImage(f *excelize.File, sheet, cell string, row int, imagePath string) {
	if imagePath == "" {
		return
	}
	resolved := e.resolveImagePath(imagePath)
	if resolved == "" {
		logger.Warningf("找不到图片文件: %s", imagePath)
		return
	}
	if err := f.AddPicture(sheet, cell, resolved, nil); err != nil {
		logger.Warningf("插入图片失败 %s: %v", resolved, err)
		return
	}
	if err := f.SetRowHeight(sheet, row, 120); err != nil {
		logger.Warningf("设置行高失败: %v", err)
	}
}

// resolveImagePath checks candidate locations for a stored image reference:
// absolute path, the configured uploads folder, cwd-relative uploads folder,
// then the bare relative path.
func (e *Exporter) resolveImagePath(name string) string {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err == nil {
			return name
		}
		return ""
	}

	candidates := []string{}
	if e.UploadDir != "" {
		candidates = append(candidates, filepath.Join(e.UploadDir, name))
	}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, "uploads", name))
	}
	candidates = append(candidates, filepath.Join("uploads", name), name)

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func pickSheet(f *excelize.File) string {
	if idx, err := f.GetSheetIndex(templateSheet); err == nil && idx != -1 {
		return templateSheet
	}
	return f.GetSheetName(f.GetActiveSheetIndex())
}

// clearTemplateResidue removes the template's own sample content: legacy
// image_path header columns, leftover data rows, and the header row cells.
func clearTemplateResidue(f *excelize.File, sheet string) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}

	if len(rows) > 0 {
		for col := len(rows[0]); col >= 1; col-- {
			if strings.EqualFold(strings.TrimSpace(rows[0][col-1]), "image_path") {
				name, err := excelize.ColumnNumberToName(col)
				if err != nil {
					return err
				}
				if err := f.RemoveCol(sheet, name); err != nil {
					return err
				}
			}
		}
	}

	for row := len(rows); row >= 2; row-- {
		if err := f.RemoveRow(sheet, row); err != nil {
			return err
		}
	}

	// Template headers may be wider than reported rows; wipe generously.
	maxCol := 20
	if len(rows) > 0 && len(rows[0]) > maxCol {
		maxCol = len(rows[0])
	}
	for col := 1; col <= maxCol; col++ {
		cell, err := excelize.CoordinatesToCellName(col, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, nil); err != nil {
			return err
		}
	}
	return nil
}

func newCellStyles(f *excelize.File) (header int, data int, err error) {
	borders := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	centered := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 12},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"366092"}, Pattern: 1},
		Alignment: centered,
		Border:    borders,
	})
	if err != nil {
		return 0, 0, err
	}

	data, err = f.NewStyle(&excelize.Style{
		Alignment: centered,
		Border:    borders,
	})
	if err != nil {
		return 0, 0, err
	}
	return header, data, nil
}

// cellValue renders the display value for a non-image column. Money and
// rate columns are formatted to two decimal places.
func cellValue(rec *model.Record, key string) string {
	d := Derive(rec)
	switch key {
	case ColDocDate:
		return rec.DocDate
	case ColCustomerName:
		return rec.CustomerName
	case ColProductDesc:
		return rec.ProductDesc
	case ColUnit:
		return rec.Unit
	case ColQuantity:
		return strconv.Itoa(rec.Quantity)
	case ColUnitPrice:
		return rec.UnitPrice.StringFixed(2)
	case ColUnitDiscountRate:
		return rec.UnitDiscountRate.StringFixed(2)
	case ColDiscountedUnitPrice:
		return d.DiscountedUnitPrice.StringFixed(2)
	case ColAmount:
		return d.Amount.StringFixed(2)
	case ColRemark:
		return rec.Remark
	case ColFreight:
		return rec.Freight.StringFixed(2)
	case ColOrderDiscountRate:
		return rec.OrderDiscountRate.StringFixed(2)
	case ColDiscountedAmount:
		return d.DiscountedAmount.StringFixed(2)
	case ColReceivable:
		return d.Receivable.StringFixed(2)
	case ColPaidTotal:
		return rec.PaidTotal.StringFixed(2)
	case ColBalance:
		return d.Balance.StringFixed(2)
	case ColSettleAccount:
		return rec.SettleAccount
	case ColDescription:
		return rec.Description
	case ColSalesperson:
		return rec.Salesperson
	case ColCreateTime:
		if rec.CreateTime.IsZero() {
			return ""
		}
		return rec.CreateTime.Format("2006-01-02 15:04:05")
	default:
		return ""
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
