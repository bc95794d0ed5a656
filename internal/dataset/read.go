package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	pkgerrors "github.com/yungbote/surveykg-backend/internal/pkg/errors"
)

// Read dispatches on the file extension: .xlsx via excelize, everything else
// as CSV with a header row.
func Read(path string) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path)
	}
	return ReadCSV(path)
}

// ReadCSV loads a comma-delimited file. The first record is the header; a
// file with a header but no data rows is ErrEmptyDataset.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset: read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset: %s has no header: %w", path, pkgerrors.ErrEmptyDataset)
	}
	if len(records) == 1 {
		return nil, fmt.Errorf("dataset: %s has no data rows: %w", path, pkgerrors.ErrEmptyDataset)
	}
	return NewTable(records[0], records[1:]), nil
}

// ReadXLSX loads the first sheet of a workbook as a table.
func ReadXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("dataset: %s has no sheets: %w", path, pkgerrors.ErrEmptyDataset)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("dataset: read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset: %s has no header: %w", path, pkgerrors.ErrEmptyDataset)
	}
	if len(rows) == 1 {
		return nil, fmt.Errorf("dataset: %s has no data rows: %w", path, pkgerrors.ErrEmptyDataset)
	}
	return NewTable(rows[0], rows[1:]), nil
}
