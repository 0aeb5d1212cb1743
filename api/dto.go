/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. The document model
  already carries wire-stable tags, so responses embed it directly; these
  types add the request bodies and the composite state envelope.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - invoice/types.go: The embedded document model
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/invoice-engine/invoice"
)

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// StateDTO is the full editor state: workflow position, document, derived
// totals, and the label table for the selected language.
type StateDTO struct {
	Workflow invoice.WorkflowState `json:"workflow"`
	Document invoice.Document      `json:"document"`
	Totals   invoice.Totals        `json:"totals"`
	Labels   map[string]string     `json:"labels"`
}

// ErrorDTO is the uniform error body.
type ErrorDTO struct {
	Error string `json:"error"`
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// UpdateItemRequest names one line-item field and its new value. Value is
// a string for description and a number (or numeric string) for quantity
// and price.
type UpdateItemRequest struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// UpdateDetailsRequest replaces the non-item detail fields.
type UpdateDetailsRequest struct {
	Currency string          `json:"currency"`
	Note     string          `json:"note"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
}

// SetLanguageRequest selects the display language.
type SetLanguageRequest struct {
	Language string `json:"language"`
}

// SetTemplateRequest selects the rendering template.
type SetTemplateRequest struct {
	Template string `json:"template"`
}
