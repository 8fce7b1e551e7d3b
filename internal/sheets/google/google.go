// Package google writes the flattened money report to a Google Sheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"bizops/internal/log"
	"bizops/internal/ports"
	"bizops/internal/report"
)

// Header is the first row of every export.
var Header = []any{"Type", "Date", "Description", "Amount", "Category"}

const dateLayout = "2006-01-02"

// Config locates the target sheet and the service account used to reach it.
// CredentialsJSON wins over CredentialsFile.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

// Exporter replaces the contents of one sheet with the report rows.
type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *log.Logger
}

var _ ports.ReportExporter = (*Exporter)(nil)

func New(ctx context.Context, cfg Config, logger *log.Logger) (*Exporter, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if cfg.SheetName == "" {
		cfg.SheetName = "Report"
	}
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentSheets)

	creds, err := credentials(cfg)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Creating Google Sheets service",
		"credentials_size", len(creds),
		"scope", gsheet.SpreadsheetsScope)

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Exporter{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		logger:        logger,
	}, nil
}

func credentials(cfg Config) ([]byte, error) {
	inline := strings.TrimSpace(cfg.CredentialsJSON)
	file := strings.TrimSpace(cfg.CredentialsFile)
	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	}
	return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
}

// Export clears the sheet's report columns and writes the header and rows.
func (e *Exporter) Export(ctx context.Context, rows []report.ExportRow) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}
	clearRange := sheetRange(e.sheetName, "A:E")
	if _, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", clearRange, err)
	}

	values := RowsToValues(rows)
	writeRange := sheetRange(e.sheetName, "A1")
	if _, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, writeRange, &gsheet.ValueRange{Values: values}).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write %s: %w", writeRange, err)
	}

	e.logger.InfoContext(ctx, "Report exported to sheet",
		log.FieldRows, len(rows),
		"sheet", e.sheetName)
	return nil
}

// RowsToValues lays rows out as sheet values, header first. Amounts are
// written as numbers in currency units.
func RowsToValues(rows []report.ExportRow) [][]any {
	out := make([][]any, 0, len(rows)+1)
	out = append(out, Header)
	for _, r := range rows {
		amount, _ := r.Amount.Decimal().Float64()
		out = append(out, []any{r.Type, r.Date.Format(dateLayout), r.Description, amount, r.Category})
	}
	return out
}

// sheetRange builds an A1 range, quoting the sheet name.
func sheetRange(sheet, cells string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(sheet, "'", "''"), cells)
}
