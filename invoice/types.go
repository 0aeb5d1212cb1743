/*
Package invoice provides the invoice document model and its derivation rules.

PURPOSE:
  This package contains the canonical data structures for an invoice: the
  two parties, the line items, payment instructions, and terms. Everything
  else in the system (session, storage, API) works against these types.

KEY CONCEPTS IN THIS FILE (types.go):
  - From / To: The two parties on an invoice
  - LineItem: A billable row with a stored, write-through amount
  - Details: Currency, items, note, and the discount/tax rates
  - Document: The full aggregate, always structurally complete
  - WorkflowState: The editor's step/template/language triple

DESIGN PRINCIPLES:
  1. Completeness: A Document never has an absent field. Missing input is
     replaced by typed empty defaults at construction and at every
     deserialization boundary.
  2. Precision: Uses decimal.Decimal for all monetary quantities and rates.
  3. Stored derived field: LineItem.Amount is quantity x price but it is
     STORED, not recomputed on read. The mutation protocol keeps it in sync.

USAGE:
  doc := invoice.DefaultDocument(time.Now())
  doc.Details.Items = append(doc.Details.Items, invoice.LineItem{...})

SEE ALSO:
  - date.go: Plain/rich date codec used by Terms
  - derive.go: Subtotal/discount/tax/total derivation
  - codec.go: Serialization and import/export
*/
package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultInvoiceNumber seeds Terms.InvoiceNumber for a fresh document.
	DefaultInvoiceNumber = "001"

	// DefaultCurrency is the currency of a fresh document.
	DefaultCurrency = "USD"

	// DefaultTemplateID is the sentinel template selection.
	DefaultTemplateID = "default"

	// DefaultLanguage is the default display language code.
	DefaultLanguage = "en"

	// DefaultDueInDays is added to the issue date to seed the due date.
	DefaultDueInDays = 14
)

// Workflow step bounds. The editor is a linear six-step flow.
const (
	MinStep = 1
	MaxStep = 6
)

// =============================================================================
// PARTIES
// =============================================================================

// From is the sender of the invoice.
// Email, Logo and TaxID are optional in the sense that they may be empty,
// but the fields themselves are always present on the wire.
type From struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Logo    string `json:"logo,omitempty"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	TaxID   string `json:"taxId"`
}

// To is the recipient of the invoice. Structurally near-identical to From,
// but billed to a company name rather than a personal display name.
type To struct {
	Email       string `json:"email"`
	CompanyName string `json:"companyName"`
	Logo        string `json:"logo,omitempty"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zip         string `json:"zip"`
	Country     string `json:"country"`
	TaxID       string `json:"taxId"`
}

// DisplayName returns the sender's display name.
func (f From) DisplayName() string { return f.Name }

// DisplayName returns the recipient's display name.
func (t To) DisplayName() string { return t.CompanyName }

// =============================================================================
// LINE ITEMS AND DETAILS
// =============================================================================

// LineItem is one billable row. The ID is generated at creation and stable
// for the item's lifetime. Amount is quantity x price, kept in sync by the
// mutation protocol in the session package — it is read as stored.
type LineItem struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Amount      decimal.Decimal `json:"amount"`
}

// RecomputeAmount sets Amount to Quantity x Price.
func (li *LineItem) RecomputeAmount() {
	li.Amount = li.Quantity.Mul(li.Price)
}

// Details holds the monetary body of the invoice. Items are ordered; the
// order is the display order. Discount and Tax are percentages and are
// expected in [0,100] but deliberately not clamped.
type Details struct {
	Currency string          `json:"currency"`
	Items    []LineItem      `json:"items"`
	Note     string          `json:"note"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
}

// =============================================================================
// PAYMENT AND TERMS
// =============================================================================

// Payment holds bank details. All free text, no format validation — the
// three routing identifiers cover different banking regions and any subset
// may be filled in.
type Payment struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
	IFSCCode      string `json:"ifscCode"`
	RoutingNumber string `json:"routingNumber"`
	SwiftCode     string `json:"swiftCode"`
}

// Terms holds the invoice number and the two calendrical values. Dates have
// no time-of-day component; see date.go for the plain/rich codec.
type Terms struct {
	InvoiceNumber string `json:"invoiceNumber"`
	IssueDate     Date   `json:"issueDate"`
	DueDate       Date   `json:"dueDate"`
}

// =============================================================================
// DOCUMENT - The full aggregate
// =============================================================================

// Document is the complete invoice. Invariant: every section is always
// present in memory; absent input is replaced by typed empty defaults at
// every deserialization boundary (see codec.go).
type Document struct {
	From    From    `json:"from"`
	To      To      `json:"to"`
	Details Details `json:"details"`
	Payment Payment `json:"payment"`
	Terms   Terms   `json:"terms"`
}

// Clone returns a deep copy of the document. Items are the only reference
// field, so a slice copy is sufficient.
func (d Document) Clone() Document {
	out := d
	out.Details.Items = make([]LineItem, len(d.Details.Items))
	copy(out.Details.Items, d.Details.Items)
	return out
}

// normalize enforces the completeness invariant after deserialization.
func (d *Document) normalize() {
	if d.Details.Items == nil {
		d.Details.Items = []LineItem{}
	}
}

// DefaultDocument returns the canonical default document: every field
// present, empty where unset, issue date = today, due date = today + 14d.
func DefaultDocument(now time.Time) Document {
	due := now.AddDate(0, 0, DefaultDueInDays)
	return Document{
		Details: Details{
			Currency: DefaultCurrency,
			Items:    []LineItem{},
		},
		Terms: Terms{
			InvoiceNumber: DefaultInvoiceNumber,
			IssueDate:     DateOf(now),
			DueDate:       DateOf(due),
		},
	}
}

// =============================================================================
// WORKFLOW STATE
// =============================================================================

// WorkflowState is the editor's position: current step (clamped to
// [MinStep, MaxStep]), selected template, and display language.
type WorkflowState struct {
	Step     int    `json:"step"`
	Template string `json:"template"`
	Language string `json:"language"`
}

// DefaultWorkflowState returns the state of a fresh editing session.
func DefaultWorkflowState() WorkflowState {
	return WorkflowState{
		Step:     MinStep,
		Template: DefaultTemplateID,
		Language: DefaultLanguage,
	}
}

// =============================================================================
// TEMPLATES
// =============================================================================

// Template identifies a rendering layout. Rendering itself is an external
// collaborator; the engine only tracks the selection.
type Template struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Preview string `json:"preview,omitempty"`
}

// Templates lists the available templates.
func Templates() []Template {
	return []Template{
		{ID: DefaultTemplateID, Name: "Default"},
	}
}
