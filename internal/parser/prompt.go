package parser

// BuildExtractionPrompt returns the field-extraction prompt for raw document
// text produced by the OCR pipeline.
func BuildExtractionPrompt(fileName string) string {
	header := "You are a document data extraction assistant. The following text was produced by OCR from a scanned business document"
	if fileName != "" {
		header += " named \"" + fileName + "\""
	}
	return header + `. The text is noisy: characters may be misread, columns may be misaligned, and numbers may carry currency symbols or stray punctuation.

Extract the document data into the following JSON structure.

IMPORTANT INSTRUCTIONS:
- Pages are separated by the marker "--- PAGE BREAK ---". Extract EVERY line item from every page into a single flat "line_items" array. Do not skip, summarize, or merge items.
- Use null for any field you cannot determine. Never invent values.
- Numeric fields may be returned as numbers or as the literal string seen in the document; do not perform arithmetic yourself.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation — just the raw JSON object:

{
  "doc_type": "",
  "vendor": "",
  "reference_no": "",
  "date": "",
  "currency": "",
  "recipient_name": "",
  "recipient_address": "",
  "subtotal": null,
  "tax_rate": null,
  "tax_amount": null,
  "total": null,
  "line_items": [
    {
      "product_or_service": "",
      "description": "",
      "qty": null,
      "unit_price": null,
      "amount": null
    }
  ],
  "notes": ""
}`
}
