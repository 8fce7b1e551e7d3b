// Package memory is a ReportExporter that keeps the last export in memory.
// The worker falls back to it when no spreadsheet is configured.
package memory

import (
	"context"
	"sync"

	"bizops/internal/ports"
	"bizops/internal/report"
)

type Exporter struct {
	mu      sync.Mutex
	last    []report.ExportRow
	exports int
	err     error
}

var _ ports.ReportExporter = (*Exporter)(nil)

func New() *Exporter { return &Exporter{} }

// Export records rows, or returns the error set with FailWith.
func (e *Exporter) Export(_ context.Context, rows []report.ExportRow) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.last = append([]report.ExportRow(nil), rows...)
	e.exports++
	return nil
}

// FailWith makes every later Export return err. nil clears it.
func (e *Exporter) FailWith(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.err = err
}

// Last returns the rows of the most recent successful export.
func (e *Exporter) Last() []report.ExportRow {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]report.ExportRow(nil), e.last...)
}

// Count is the number of successful exports.
func (e *Exporter) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exports
}
