package parser

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// buildDocumentSchema returns the JSON-Schema the extraction output must
// satisfy. Numeric fields are deliberately loose (number, string or null)
// because normalization happens downstream; the schema guards the shape, not
// the values.
func buildDocumentSchema() map[string]any {
	looseNumber := map[string]any{"type": []string{"number", "string", "null"}}
	looseString := map[string]any{"type": []string{"string", "null"}}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"doc_type":          looseString,
			"vendor":            looseString,
			"reference_no":      looseString,
			"date":              looseString,
			"currency":          looseString,
			"recipient_name":    looseString,
			"recipient_address": looseString,
			"subtotal":          looseNumber,
			"tax_rate":          looseNumber,
			"tax_amount":        looseNumber,
			"total":             looseNumber,
			"notes":             looseString,
			"line_items": map[string]any{
				"type": []string{"array", "null"},
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"product_or_service": looseString,
						"description":        looseString,
						"qty":                looseNumber,
						"unit_price":         looseNumber,
						"amount":             looseNumber,
					},
				},
			},
		},
	}
}

var documentSchema = mustCompileSchema(buildDocumentSchema())

func mustCompileSchema(schemaMap map[string]any) *jsonschema.Schema {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		panic(fmt.Sprintf("marshal document schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("document.json", bytes.NewReader(b)); err != nil {
		panic(fmt.Sprintf("add document schema: %v", err))
	}
	schema, err := compiler.Compile("document.json")
	if err != nil {
		panic(fmt.Sprintf("compile document schema: %v", err))
	}
	return schema
}

// ValidateStructured checks that the provider's raw output is a JSON object
// of the expected shape.
func ValidateStructured(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal structured data: %w", err)
	}
	if err := documentSchema.Validate(v); err != nil {
		return fmt.Errorf("structured data does not match schema: %w", err)
	}
	return nil
}
