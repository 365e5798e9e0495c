package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/sxdkling-ops/ocrv/internal/domain"
)

const sheetName = "Document"

// WriteXLSX writes a structured document to w as an Excel workbook with a
// summary block followed by the line item table.
func WriteXLSX(w io.Writer, doc *domain.StructuredDocument) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	summary := [][]interface{}{
		{"Document Type", cellStr(doc.DocType)},
		{"Vendor", cellStr(doc.Vendor)},
		{"Reference No", cellStr(doc.ReferenceNo)},
		{"Date", cellStr(doc.Date)},
		{"Currency", cellStr(doc.Currency)},
		{"Recipient Name", cellStr(doc.RecipientName)},
		{"Recipient Address", cellStr(doc.RecipientAddress)},
		{"Subtotal", cellNum(doc.Subtotal)},
		{"Tax Rate", cellNum(doc.TaxRate)},
		{"Tax Amount", cellNum(doc.TaxAmount)},
		{"Total", cellNum(doc.Total)},
		{"Notes", cellStr(doc.Notes)},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("writing summary row: %w", err)
		}
	}

	itemStart := len(summary) + 2
	header := []interface{}{"Product/Service", "Description", "Qty", "Unit Price", "Amount"}
	cell, err := excelize.CoordinatesToCellName(1, itemStart)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetName, cell, &header); err != nil {
		return fmt.Errorf("writing item header: %w", err)
	}
	for i := range doc.LineItems {
		item := &doc.LineItems[i]
		row := []interface{}{
			cellStr(item.ProductOrService),
			cellStr(item.Description),
			cellNum(item.Qty),
			cellNum(item.UnitPrice),
			cellNum(item.Amount),
		}
		cell, err := excelize.CoordinatesToCellName(1, itemStart+1+i)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("writing item row: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func cellStr(s *string) interface{} {
	if s == nil {
		return ""
	}
	return *s
}

func cellNum(n domain.Numeric) interface{} {
	if !n.Valid {
		return nil
	}
	return n.Value
}
