package web

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"

	"github.com/xuri/excelize/v2"

	"fitpro/internal/domain/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// writeWorkbook renders sheets into one xlsx workbook, in order.
// PRE: at least one sheet
// POST: A complete workbook is written to w, or an error before any byte is
func writeWorkbook(w io.Writer, sheets ...export.Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, sheet := range sheets {
		if err := sheet.Validate(); err != nil {
			return err
		}
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return err
		}

		cells := make([]any, len(sheet.Header))
		for j, h := range sheet.Header {
			cells[j] = h
		}
		if err := f.SetSheetRow(sheet.Name, "A1", &cells); err != nil {
			return err
		}
		last, err := excelize.CoordinatesToCellName(len(sheet.Header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet.Name, "A1", last, header); err != nil {
			return err
		}

		for r, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet.Name, cell, &row); err != nil {
				return err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// serveWorkbook sends sheets as an xlsx attachment.
func serveWorkbook(w http.ResponseWriter, r *http.Request, filename string, sheets ...export.Sheet) {
	var buf bytes.Buffer
	if err := writeWorkbook(&buf, sheets...); err != nil {
		internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// xlsxToCSV reads the first sheet of a workbook and re-encodes it as CSV so
// spreadsheet uploads share the CSV import path.
func xlsxToCSV(src io.Reader) (io.Reader, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read workbook rows: %w", err)
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.WriteAll(rows); err != nil {
		return nil, err
	}
	return &buf, nil
}
