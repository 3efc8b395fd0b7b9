package reader

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func TestReadBytesCSV(t *testing.T) {
	data := []byte("Bank X\nДата,Сумма,Назначение\n01.02.2023,\"1000,50\",оплата\n")

	rows, err := ReadBytes(data, ".csv")
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	want := [][]string{
		{"Bank X"},
		{"Дата", "Сумма", "Назначение"},
		{"01.02.2023", "1000,50", "оплата"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %v, want %v", rows, want)
	}
}

func TestReadBytesSemicolonDelimited(t *testing.T) {
	data := []byte("Дата;Сумма;Назначение\n01.01.2023;100;аренда\n")

	rows, err := ReadBytes(data, ".csv")
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	if len(rows) != 2 || len(rows[0]) != 3 {
		t.Fatalf("rows = %v, want 2x3", rows)
	}
	if rows[1][2] != "аренда" {
		t.Errorf("cell = %q, want аренда", rows[1][2])
	}
}

func TestReadBytesBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Date,Amount\n01.01.2023,5\n")...)

	rows, err := ReadBytes(data, ".csv")
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	if rows[0][0] != "Date" {
		t.Errorf("first cell = %q, want Date (BOM stripped)", rows[0][0])
	}
}

func TestReadBytesCP1251(t *testing.T) {
	encoded, _, err := transform.Bytes(charmap.Windows1251.NewEncoder(),
		[]byte("Дата;Сумма\n01.01.2023;100\n"))
	if err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}

	rows, err := ReadBytes(encoded, ".csv")
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	if rows[0][0] != "Дата" {
		t.Errorf("first cell = %q, want Дата", rows[0][0])
	}
}

func TestReadBytesXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := [][]interface{}{
		{"Bank X"},
		{"Date", "Amount", "Purpose"},
		{"01.02.2023", "1000,50", "rent"},
	}
	for i, row := range cells {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("writing fixture workbook: %v", err)
	}

	// Magic-byte detection must route this even with a wrong extension.
	rows, err := ReadBytes(buf.Bytes(), ".bin")
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[1][1] != "Amount" {
		t.Errorf("cell = %q, want Amount", rows[1][1])
	}
}

func TestReadBytesUnsupported(t *testing.T) {
	if _, err := ReadBytes([]byte("%PDF-1.4"), ".pdf"); err == nil {
		t.Error("expected error for unsupported file type")
	}
	if _, err := ReadBytes([]byte{0xD0, 0xCF, 0x11, 0xE0, 0x00}, ".xls"); err == nil {
		t.Error("expected error for legacy xls")
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "statement.csv")
	if err := os.WriteFile(path, []byte("Date,Amount\n01.01.2023,5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rows, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("rows = %d, want 2", len(rows))
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		data string
		want rune
	}{
		{"a,b,c\n1,2,3\n", ','},
		{"a;b;c\n1;2;3\n", ';'},
		{"a\tb\tc\n", '\t'},
		{"a|b|c\n", '|'},
		{"single column\n", ','},
	}
	for _, tt := range tests {
		if got := sniffDelimiter([]byte(tt.data)); got != tt.want {
			t.Errorf("sniffDelimiter(%q) = %q, want %q", tt.data, got, tt.want)
		}
	}
}
