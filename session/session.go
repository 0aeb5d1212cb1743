/*
session.go - The invoice editing session

PURPOSE:
  A Session is the single logical owner of one invoice document and its
  workflow state. Every mutation goes through a Session method, which
  mutates in place and immediately mirrors the full state to the
  persistence gateway. On construction the session restores itself from
  storage, falling back to defaults.

STATE MACHINE:
  The step is an integer in [1,6]. Advance/Retreat at the bounds are
  silent no-ops. Every successful transition persists.

MUTATION PROTOCOL (line items):
  AddItem     appends {fresh id, "", qty 1, price 0, amount 0}
  RemoveItem  removes the first match; silent no-op when absent
  UpdateItem  sets one field; quantity/price writes recompute Amount

CONCURRENCY:
  There is exactly one logical writer, but HTTP requests may arrive in
  parallel, so a mutex serializes all access. Overlapping imports are
  last-writer-wins: whichever Import acquires the lock last determines the
  final document.

SEE ALSO:
  - gateway.go: Persistence policy
  - invoice/codec.go: Import/export text forms
*/
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/invoice-engine/invoice"
)

// ItemField names a mutable line-item field for UpdateItem.
type ItemField string

const (
	FieldDescription ItemField = "description"
	FieldQuantity    ItemField = "quantity"
	FieldPrice       ItemField = "price"
)

// Session owns one document and its workflow state.
type Session struct {
	mu       sync.Mutex
	gw       *Gateway
	log      *zap.Logger
	now      func() time.Time
	defaults invoice.Document

	state invoice.WorkflowState
	doc   invoice.Document
}

// Options tunes session construction. The zero value is production-ready.
type Options struct {
	// Now overrides the clock (tests). Nil means time.Now.
	Now func() time.Time
	// Language is the default language code when none is stored.
	// Empty means invoice.DefaultLanguage.
	Language string
}

// New restores a session from the gateway, using defaults for anything
// absent or unreadable.
func New(ctx context.Context, gw *Gateway, log *zap.Logger, opts Options) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	lang := opts.Language
	if lang == "" {
		lang = invoice.DefaultLanguage
	}
	defaults := invoice.DefaultDocument(now())

	s := &Session{
		gw:       gw,
		log:      log,
		now:      now,
		defaults: defaults,
	}
	s.state = invoice.WorkflowState{
		Step:     Load(ctx, gw, KeyStep, invoice.MinStep, JSONDecode[int]),
		Template: Load(ctx, gw, KeyTemplate, invoice.DefaultTemplateID, JSONDecode[string]),
		Language: Load(ctx, gw, KeyLanguage, lang, JSONDecode[string]),
	}
	s.doc = Load(ctx, gw, KeyData, defaults.Clone(), func(raw string) (invoice.Document, error) {
		return invoice.ParseDocument(raw, defaults)
	})
	return s
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

// Document returns a deep copy of the current document.
func (s *Session) Document() invoice.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Workflow returns the current workflow state.
func (s *Session) Workflow() invoice.WorkflowState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Totals derives the four monetary totals from the current items and rates.
// Recomputed on every call, never cached.
func (s *Session) Totals() invoice.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return invoice.Compute(&s.doc.Details)
}

// =============================================================================
// WORKFLOW CONTROLLER
// =============================================================================

// Advance moves to the next step. Silent no-op at the upper bound.
func (s *Session) Advance(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Step >= invoice.MaxStep {
		return
	}
	s.state.Step++
	s.persistLocked(ctx)
}

// Retreat moves to the previous step. Silent no-op at the lower bound.
func (s *Session) Retreat(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Step <= invoice.MinStep {
		return
	}
	s.state.Step--
	s.persistLocked(ctx)
}

// SetLanguage records the display language code. The session does not
// validate the code; unknown codes are a caller error.
func (s *Session) SetLanguage(ctx context.Context, lang string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Language = lang
	s.persistLocked(ctx)
}

// SetTemplate records the selected template id.
func (s *Session) SetTemplate(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Template = id
	s.persistLocked(ctx)
}

// =============================================================================
// LINE-ITEM MUTATION PROTOCOL
// =============================================================================

// AddItem appends a fresh line item and returns a copy of it.
func (s *Session) AddItem(ctx context.Context) invoice.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := invoice.LineItem{
		ID:       uuid.NewString(),
		Quantity: decimal.NewFromInt(1),
		Price:    decimal.Zero,
		Amount:   decimal.Zero,
	}
	s.doc.Details.Items = append(s.doc.Details.Items, item)
	s.persistLocked(ctx)
	return item
}

// RemoveItem removes the first item whose id matches. Returns whether a
// removal occurred; a miss is a silent no-op and does not persist.
func (s *Session) RemoveItem(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.doc.Details.Items
	for i := range items {
		if items[i].ID == id {
			s.doc.Details.Items = append(items[:i], items[i+1:]...)
			s.persistLocked(ctx)
			return true
		}
	}
	return false
}

// UpdateItem sets field on the matching item. Writes to quantity or price
// recompute Amount immediately (write-through derived field). Returns
// (false, nil) when no item matches; persists only on a successful write.
func (s *Session) UpdateItem(ctx context.Context, id string, field ItemField, value any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := s.findItemLocked(id)
	if item == nil {
		return false, nil
	}

	switch field {
	case FieldDescription:
		text, ok := value.(string)
		if !ok {
			return false, fmt.Errorf("%s: want string, got %T", field, value)
		}
		item.Description = text
	case FieldQuantity:
		qty, err := toDecimal(value)
		if err != nil {
			return false, fmt.Errorf("%s: %w", field, err)
		}
		item.Quantity = qty
		item.RecomputeAmount()
	case FieldPrice:
		price, err := toDecimal(value)
		if err != nil {
			return false, fmt.Errorf("%s: %w", field, err)
		}
		item.Price = price
		item.RecomputeAmount()
	default:
		return false, fmt.Errorf("%w: %q", invoice.ErrUnknownField, field)
	}

	s.persistLocked(ctx)
	return true, nil
}

func (s *Session) findItemLocked(id string) *invoice.LineItem {
	for i := range s.doc.Details.Items {
		if s.doc.Details.Items[i].ID == id {
			return &s.doc.Details.Items[i]
		}
	}
	return nil
}

// toDecimal accepts the numeric forms an API or caller may hand over.
func toDecimal(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		return decimal.NewFromString(v)
	default:
		return decimal.Zero, fmt.Errorf("want number, got %T", value)
	}
}

// =============================================================================
// SECTION SETTERS
// =============================================================================

// SetFrom replaces the sender section.
func (s *Session) SetFrom(ctx context.Context, from invoice.From) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.From = from
	s.persistLocked(ctx)
}

// SetTo replaces the recipient section.
func (s *Session) SetTo(ctx context.Context, to invoice.To) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.To = to
	s.persistLocked(ctx)
}

// SetPayment replaces the payment section.
func (s *Session) SetPayment(ctx context.Context, p invoice.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Payment = p
	s.persistLocked(ctx)
}

// SetTerms replaces the terms. Dates are stored in plain form; render-time
// callers promote on demand.
func (s *Session) SetTerms(ctx context.Context, t invoice.Terms) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.IssueDate = t.IssueDate.ToPlain()
	t.DueDate = t.DueDate.ToPlain()
	s.doc.Terms = t
	s.persistLocked(ctx)
}

// SetDetails replaces the non-item detail fields. Items are managed only
// by the mutation protocol above.
func (s *Session) SetDetails(ctx context.Context, currency, note string, discount, tax decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Details.Currency = currency
	s.doc.Details.Note = note
	s.doc.Details.Discount = discount
	s.doc.Details.Tax = tax
	s.persistLocked(ctx)
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Reset replaces the document with a fresh default copy and returns to the
// first step. Template and language selections survive a reset.
func (s *Session) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaults = invoice.DefaultDocument(s.now())
	s.doc = s.defaults.Clone()
	s.state.Step = invoice.MinStep
	s.persistLocked(ctx)
}

// =============================================================================
// IMPORT / EXPORT
// =============================================================================

// Import parses text and, on success, replaces the entire document and
// persists. On parse failure the document is unchanged and the error wraps
// invoice.ErrInvalidImportFormat. Overlapping imports serialize on the
// session lock; the last writer wins.
func (s *Session) Import(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := invoice.ParseDocument(text, s.defaults)
	if err != nil {
		return err
	}
	s.doc = doc
	s.persistLocked(ctx)
	return nil
}

// Export returns the pretty-printed document and its download filename.
func (s *Session) Export() ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := invoice.ExportDocument(s.doc)
	if err != nil {
		return nil, "", err
	}
	return b, invoice.ExportFilename(s.doc), nil
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// persistLocked mirrors the full state to storage. Best-effort: failures
// are logged by the gateway and never stop the edit path.
func (s *Session) persistLocked(ctx context.Context) {
	Save(ctx, s.gw, KeyStep, s.state.Step, JSONEncode[int])
	Save(ctx, s.gw, KeyTemplate, s.state.Template, JSONEncode[string])
	Save(ctx, s.gw, KeyLanguage, s.state.Language, JSONEncode[string])
	Save(ctx, s.gw, KeyData, s.doc, invoice.MarshalDocument)
}
