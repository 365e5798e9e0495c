package domain

// StructuredDocument is the structured record distilled from a scanned
// business document. It is produced from an extraction provider's untrusted
// output and repaired exactly once by the reconcile package; after that it is
// final and never mutated again.
type StructuredDocument struct {
	DocType          *string    `json:"doc_type"`
	Vendor           *string    `json:"vendor"`
	ReferenceNo      *string    `json:"reference_no"`
	Date             *string    `json:"date"`
	Currency         *string    `json:"currency"`
	RecipientName    *string    `json:"recipient_name"`
	RecipientAddress *string    `json:"recipient_address"`
	Subtotal         Numeric    `json:"subtotal"`
	TaxRate          Numeric    `json:"tax_rate"`
	TaxAmount        Numeric    `json:"tax_amount"`
	Total            Numeric    `json:"total"`
	LineItems        []LineItem `json:"line_items"`
	Notes            *string    `json:"notes"`
}

// LineItem is a single billed position on the document.
type LineItem struct {
	ProductOrService *string `json:"product_or_service"`
	Description      *string `json:"description"`
	Qty              Numeric `json:"qty"`
	UnitPrice        Numeric `json:"unit_price"`
	Amount           Numeric `json:"amount"`
}
