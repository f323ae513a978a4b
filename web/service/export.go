package service

import (
	"salespanel/config"
	"salespanel/excel"
)

// ExportService drives the record export pipeline: it loads the filtered
// record set and hands it to the excel exporter together with the macro
// runner for the current platform.
type ExportService struct {
	recordService RecordService

	// Runner overrides the platform macro runner when set. Tests inject a
	// NoopMacroRunner here.
	Runner excel.MacroRunner
}

func (s *ExportService) ExportRecords(filter RecordFilter, columns []string) (*excel.Result, error) {
	cols := excel.NormalizeColumns(columns)
	if len(cols) == 0 {
		return nil, excel.ErrNoColumns
	}

	records, err := s.recordService.GetAllRecords(filter)
	if err != nil {
		return nil, err
	}

	runner := s.Runner
	if runner == nil {
		runner = excel.RunnerForOS()
	}

	exporter := &excel.Exporter{
		TemplatePath: config.GetTemplatePath(),
		UploadDir:    config.GetUploadFolder(),
		Runner:       runner,
	}
	return exporter.Export(records, cols)
}
