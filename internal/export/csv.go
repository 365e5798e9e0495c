package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sxdkling-ops/ocrv/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// headerColumns defines the document summary columns preceding line items.
var headerColumns = []string{
	"Document Type",
	"Vendor",
	"Reference No",
	"Date",
	"Currency",
	"Recipient Name",
	"Recipient Address",
	"Subtotal",
	"Tax Rate",
	"Tax Amount",
	"Total",
	"Notes",
}

// itemColumns defines the per-line-item columns.
var itemColumns = []string{
	"Product/Service",
	"Description",
	"Qty",
	"Unit Price",
	"Amount",
}

// WriteCSV writes a structured document to w as CSV: a summary row followed
// by a blank line and the line item table.
func WriteCSV(w io.Writer, doc *domain.StructuredDocument) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(headerColumns); err != nil {
		return err
	}
	summary := []string{
		str(doc.DocType),
		str(doc.Vendor),
		str(doc.ReferenceNo),
		str(doc.Date),
		str(doc.Currency),
		str(doc.RecipientName),
		str(doc.RecipientAddress),
		num(doc.Subtotal),
		num(doc.TaxRate),
		num(doc.TaxAmount),
		num(doc.Total),
		str(doc.Notes),
	}
	if err := cw.Write(summary); err != nil {
		return err
	}

	if err := cw.Write([]string{}); err != nil {
		return err
	}
	if err := cw.Write(itemColumns); err != nil {
		return err
	}
	for i := range doc.LineItems {
		item := &doc.LineItems[i]
		row := []string{
			str(item.ProductOrService),
			str(item.Description),
			num(item.Qty),
			num(item.UnitPrice),
			num(item.Amount),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func num(n domain.Numeric) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', 2, 64)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a document name for use in Content-Disposition.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name, ext string) string {
	sanitized := SanitizeFilename(name)
	if sanitized == "" {
		sanitized = "document"
	}
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
