// Package export renders console lists as XLSX workbooks.
package export

import (
	"bytes"
	"fmt"

	"github.com/diewo77/go-pharmacy/internal/models"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the produced workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func writeRows(sheetName string, header []any, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, sheetName); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &r); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Drugs writes the catalog, one drug per row.
func Drugs(drugs []models.Drug) ([]byte, error) {
	header := []any{"id", "name", "amount", "unit", "available", "expiration_date", "description"}
	rows := make([][]any, 0, len(drugs))
	for _, d := range drugs {
		exp := ""
		if d.ExpirationDate != nil {
			exp = d.ExpirationDate.String()
		}
		rows = append(rows, []any{d.ID, d.Name, d.Amount, d.Unit, d.IsAvailable, exp, d.Description})
	}
	return writeRows("Drugs", header, rows)
}

// Quotations writes one row per quotation with its line items flattened.
func Quotations(qs []models.Quotation) ([]byte, error) {
	header := []any{"id", "pharmacist", "prescription", "state", "items", "total_cost"}
	rows := make([][]any, 0, len(qs))
	for _, q := range qs {
		pharmacist := q.PharmacistName()
		if pharmacist == "" {
			pharmacist = q.Pharmacist.ID
		}
		rows = append(rows, []any{q.ID, pharmacist, q.PrescriptionID(), string(q.State), itemsSummary(q.Drugs), q.TotalCost})
	}
	return writeRows("Quotations", header, rows)
}

func itemsSummary(items []models.LineItem) string {
	var b bytes.Buffer
	for i, it := range items {
		if i > 0 {
			b.WriteString("; ")
		}
		name := it.Drug.ID
		if it.Drug.Value != nil && it.Drug.Value.Name != "" {
			name = it.Drug.Value.Name
		}
		fmt.Fprintf(&b, "%s x%d", name, it.Quantity)
	}
	return b.String()
}
