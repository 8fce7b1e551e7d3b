package google

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bizops/internal/core"
	"bizops/internal/report"
)

func TestRowsToValues(t *testing.T) {
	rows := []report.ExportRow{
		{Type: report.RowBooking, Date: time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC), Description: "Asha", Amount: core.Cents(25050), Category: "flight"},
		{Type: report.RowExpense, Date: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), Description: "Diesel", Amount: core.Cents(-4500), Category: "Fuel"},
	}
	got := RowsToValues(rows)

	if len(got) != 3 {
		t.Fatalf("want 3 rows, got %d", len(got))
	}
	if got[0][0] != "Type" || got[0][3] != "Amount" {
		t.Errorf("unexpected header %v", got[0])
	}
	if got[1][1] != "2025-03-01" || got[1][3] != 250.5 {
		t.Errorf("unexpected booking row %v", got[1])
	}
	if got[2][3] != -45.0 || got[2][4] != "Fuel" {
		t.Errorf("unexpected expense row %v", got[2])
	}
}

func TestRowsToValuesEmpty(t *testing.T) {
	got := RowsToValues(nil)
	if len(got) != 1 {
		t.Fatalf("header only expected, got %d rows", len(got))
	}
}

func TestSheetRange(t *testing.T) {
	cases := map[string]string{
		"Report":        "'Report'!A:E",
		"Q1 Report":     "'Q1 Report'!A:E",
		"Owner's sheet": "'Owner''s sheet'!A:E",
	}
	for in, want := range cases {
		if got := sheetRange(in, "A:E"); got != want {
			t.Errorf("sheetRange(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCredentials(t *testing.T) {
	if _, err := credentials(Config{}); err == nil {
		t.Error("expected error without credentials")
	}

	b, err := credentials(Config{CredentialsJSON: ` {"type":"service_account"} `, CredentialsFile: "/nope"})
	if err != nil || string(b) != `{"type":"service_account"}` {
		t.Errorf("inline credentials: %q, %v", b, err)
	}

	path := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(path, []byte(`{"k":1}`), 0o600); err != nil {
		t.Fatal(err)
	}
	b, err = credentials(Config{CredentialsFile: path})
	if err != nil || string(b) != `{"k":1}` {
		t.Errorf("file credentials: %q, %v", b, err)
	}
}

func TestNewRequiresSpreadsheetID(t *testing.T) {
	if _, err := New(context.Background(), Config{}, nil); err == nil {
		t.Error("expected error for missing spreadsheet id")
	}
}
