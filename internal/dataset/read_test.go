package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	pkgerrors "github.com/yungbote/surveykg-backend/internal/pkg/errors"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	path := writeTemp(t, "survey.csv", "UID,PROJECT_NAME,Q1\nu1,pulse,yes\nu2,pulse,\n")
	table, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(table.Columns) != 3 || len(table.Rows) != 2 {
		t.Fatalf("table shape = %dx%d, want 3x2", len(table.Columns), len(table.Rows))
	}
	if v, ok := table.Value(0, "Q1"); !ok || v != "yes" {
		t.Errorf("Value(0, Q1) = (%q, %v)", v, ok)
	}
	if _, ok := table.Value(1, "Q1"); ok {
		t.Error("blank cell should be absent")
	}
}

func TestReadCSVEmpty(t *testing.T) {
	headerOnly := writeTemp(t, "header.csv", "UID,Q1\n")
	if _, err := ReadCSV(headerOnly); !errors.Is(err, pkgerrors.ErrEmptyDataset) {
		t.Errorf("header-only file: got %v, want ErrEmptyDataset", err)
	}

	empty := writeTemp(t, "empty.csv", "")
	if _, err := ReadCSV(empty); !errors.Is(err, pkgerrors.ErrEmptyDataset) {
		t.Errorf("empty file: got %v, want ErrEmptyDataset", err)
	}
}

func TestReadCSVMissing(t *testing.T) {
	if _, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("missing file should fail")
	}
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"UID", "PROJECT_NAME", "Q1"},
		{"u1", "pulse", "yes"},
		{"u2", "pulse", "no"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "survey.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}

	table, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	if v, ok := table.Value(1, "Q1"); !ok || v != "no" {
		t.Errorf("Value(1, Q1) = (%q, %v)", v, ok)
	}
}
