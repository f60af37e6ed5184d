// Package export writes drift listings to spreadsheet files.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/driftdesk/driftdesk-cli/internal/client/models"
	"github.com/driftdesk/driftdesk-cli/internal/filex"
	"github.com/xuri/excelize/v2"
)

const SheetName = "Drifts"

var ErrUnsupportedFormat = errors.New("export file must end in .xlsx")

var header = []any{"ID", "Title", "Description", "Status", "Priority", "Assignee", "Created by", "Created", "Updated", "Resolved", "Closed", "Comments"}

const stampLayout = "2006-01-02 15:04:05"

func stamp(ts models.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(stampLayout)
}

func optStamp(ts *models.Timestamp) string {
	if ts == nil {
		return ""
	}
	return stamp(*ts)
}

// Write renders drifts as a single-sheet workbook into w.
func Write(w io.Writer, drifts []models.Drift) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, d := range drifts {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []any{
			d.ID,
			d.Title,
			d.Description,
			string(d.Status),
			string(d.Priority),
			d.Assignee(),
			d.CreatedBy.DisplayName(),
			stamp(d.CreatedAt),
			stamp(d.UpdatedAt),
			optStamp(d.ResolvedAt),
			optStamp(d.ClosedAt),
			d.CommentCount,
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write drift %d: %w", d.ID, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Save writes drifts to path, which must have an .xlsx extension.
// Missing parent directories are created.
func Save(path string, drifts []models.Drift) (err error) {
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ErrUnsupportedFormat
	}

	abs, err := filex.EnsureParentDir(path)
	if err != nil {
		return err
	}

	out, err := os.Create(abs)
	if err != nil {
		return fmt.Errorf("create %s: %w", abs, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	return Write(out, drifts)
}
