/*
codec.go - Document serialization, import, and export

PURPOSE:
  Converts the Document to and from its transportable text form. Three
  callers: the persistence gateway (compact form, storage), the export path
  (pretty form, file download), and the import path (arbitrary user text).

BOUNDARY RULE:
  Dates always leave the process as plain {year, month, day} triples
  (Date.MarshalJSON enforces this) and are promoted back to rich values on
  entry when the parsed value carries a usable triple.

IMPORT TOLERANCE:
  Import text is expected to be hand-edited. Every top-level section that
  is absent or malformed falls back to the default document's section;
  terms fall back field-by-field. Only text that fails to parse as JSON at
  the top level is an error (ErrInvalidImportFormat).

SEE ALSO:
  - date.go: Plain/rich promotion rules
  - errors.go: ImportError / ErrInvalidImportFormat
  - session/session.go: Import/Export entry points
*/
package invoice

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// STORAGE FORM
// =============================================================================

// MarshalDocument serializes the document compactly for storage. Dates are
// written as plain triples.
func MarshalDocument(doc Document) (string, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	return string(b), nil
}

// =============================================================================
// EXPORT - Pretty-printed file form
// =============================================================================

// ExportDocument serializes the document pretty-printed for a file
// download. The output is complete and self-describing: every section and
// field is present, dates in plain-triple form.
func ExportDocument(doc Document) ([]byte, error) {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export document: %w", err)
	}
	return b, nil
}

// ExportFilename derives the download filename from the invoice number.
func ExportFilename(doc Document) string {
	return fmt.Sprintf("invoice-%s.json", doc.Terms.InvoiceNumber)
}

// =============================================================================
// IMPORT / DESERIALIZATION - Tolerant, default-merging
// =============================================================================

// documentWire splits the top level into raw sections so each can fail
// independently without failing the whole parse.
type documentWire struct {
	From    json.RawMessage `json:"from"`
	To      json.RawMessage `json:"to"`
	Details json.RawMessage `json:"details"`
	Payment json.RawMessage `json:"payment"`
	Terms   json.RawMessage `json:"terms"`
}

type termsWire struct {
	InvoiceNumber string          `json:"invoiceNumber"`
	IssueDate     json.RawMessage `json:"issueDate"`
	DueDate       json.RawMessage `json:"dueDate"`
}

// ParseDocument parses external text into a complete document, merging
// against defaults shallowly per top-level section. Returns an error
// wrapping ErrInvalidImportFormat only when the text is not valid JSON;
// partial or per-section malformed input is not an error.
func ParseDocument(text string, defaults Document) (Document, error) {
	var wire documentWire
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return Document{}, &ImportError{Err: err}
	}

	doc := Document{
		From:    defaults.From,
		To:      defaults.To,
		Details: defaults.Details,
		Payment: defaults.Payment,
		Terms:   defaults.Terms,
	}

	parseSection(wire.From, &doc.From)
	parseSection(wire.To, &doc.To)
	parseSection(wire.Details, &doc.Details)
	parseSection(wire.Payment, &doc.Payment)
	doc.Terms = parseTerms(wire.Terms, defaults.Terms)

	doc.normalize()
	return doc, nil
}

// parseSection unmarshals raw into dst, leaving dst at its default on
// absence or failure.
func parseSection[T any](raw json.RawMessage, dst *T) {
	if len(raw) == 0 || string(raw) == "null" {
		return
	}
	var parsed T
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return
	}
	*dst = parsed
}

// parseTerms falls back field-by-field: the invoice number when empty, each
// date when it is neither a plain triple nor already rich.
func parseTerms(raw json.RawMessage, defaults Terms) Terms {
	out := defaults
	if len(raw) == 0 || string(raw) == "null" {
		return out
	}
	var wire termsWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return out
	}
	if wire.InvoiceNumber != "" {
		out.InvoiceNumber = wire.InvoiceNumber
	}
	out.IssueDate = parseDate(wire.IssueDate, defaults.IssueDate)
	out.DueDate = parseDate(wire.DueDate, defaults.DueDate)
	return out
}

// parseDate reconstructs a rich date from a raw value, falling back to the
// default when the value is missing, malformed, or not a date-shaped
// object. A value that already carries a calendar marker is promoted
// as-is, never re-wrapped.
func parseDate(raw json.RawMessage, fallback Date) Date {
	if len(raw) == 0 || string(raw) == "null" {
		return fallback.ToRich()
	}
	var d Date
	if err := json.Unmarshal(raw, &d); err != nil || d.IsZero() {
		return fallback.ToRich()
	}
	return d.ToRich()
}
