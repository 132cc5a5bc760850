package parser

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/receiptscan/email-receipts/internal/common"
	"github.com/receiptscan/email-receipts/internal/entity"
)

// BuildRecordJSONSchema returns the JSON-Schema for a serialized
// ReceiptRecord as a generic map. The persistence sinks validate every
// row against it before writing.
func BuildRecordJSONSchema() map[string]any {
	props := map[string]any{
		"vendor":        nullableString(),
		"date":          nullableString(),
		"total":         decimalProp(),
		"subtotal":      decimalProp(),
		"tax":           decimalProp(),
		"shipping":      decimalProp(),
		"discount":      decimalProp(),
		"order_number":  nullableString(),
		"currency":      map[string]any{"type": "string", "minLength": 3, "maxLength": 3},
		"email_subject": map[string]any{"type": "string"},
		"email_from":    map[string]any{"type": "string"},
		"email_date":    map[string]any{"type": "string"},
		"confidence":    map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		"items": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"name":     map[string]any{"type": "string"},
					"quantity": map[string]any{"type": "integer", "minimum": 1},
					"price":    map[string]any{"type": "string", "pattern": `^\d+(\.\d+)?$`},
					"total":    map[string]any{"type": "string", "pattern": `^\d+(\.\d+)?$`},
				},
				"required": []string{"name", "quantity", "price", "total"},
			},
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required": []string{
			"vendor", "date", "total", "subtotal", "tax", "shipping",
			"discount", "order_number", "items", "currency",
			"email_subject", "email_from", "email_date", "confidence",
		},
	}
}

func nullableString() map[string]any {
	return map[string]any{"type": []string{"string", "null"}}
}

func decimalProp() map[string]any {
	// money serializes as a quoted decimal string; amounts are never negative
	return map[string]any{
		"type":    []string{"string", "null"},
		"pattern": `^\d+(\.\d+)?$`,
	}
}

// RecordValidator validates serialized records against the schema above.
type RecordValidator struct {
	schema *jsonschema.Schema
}

func NewRecordValidator() (*RecordValidator, error) {
	raw, err := json.Marshal(BuildRecordJSONSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("receipt-record.schema.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	sch, err := c.Compile("receipt-record.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &RecordValidator{schema: sch}, nil
}

// Validate round-trips the record through JSON and checks it against the
// schema. A failure here means the engine produced a malformed record,
// which callers should treat as a defect rather than a parse miss.
func (v *RecordValidator) Validate(rec *entity.ReceiptRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return nil
}
