package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/invoice-engine/invoice"
	"github.com/warp/invoice-engine/invoice/store"
	"github.com/warp/invoice-engine/session"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var fixedNow = func() time.Time {
	return time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
}

// spyKV counts writes so tests can assert on the no-write no-op paths.
type spyKV struct {
	*store.Memory
	puts int
}

func (s *spyKV) Put(ctx context.Context, key, value string) error {
	s.puts++
	return s.Memory.Put(ctx, key, value)
}

func newTestSession(t *testing.T) (*session.Session, *spyKV) {
	t.Helper()
	kv := &spyKV{Memory: store.NewMemory()}
	gw := session.NewGateway(kv, nil)
	return session.New(context.Background(), gw, nil, session.Options{Now: fixedNow}), kv
}

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// =============================================================================
// RESTORE / DEFAULTS
// =============================================================================

func TestNew_EmptyStore_Defaults(t *testing.T) {
	s, _ := newTestSession(t)

	wf := s.Workflow()
	assert.Equal(t, invoice.MinStep, wf.Step)
	assert.Equal(t, invoice.DefaultTemplateID, wf.Template)
	assert.Equal(t, invoice.DefaultLanguage, wf.Language)

	doc := s.Document()
	assert.Equal(t, invoice.DefaultCurrency, doc.Details.Currency)
	assert.Equal(t, invoice.DefaultInvoiceNumber, doc.Terms.InvoiceNumber)
	assert.Empty(t, doc.Details.Items)
	assert.True(t, doc.Terms.IssueDate.Equal(invoice.NewDate(2025, 6, 1)))
	assert.True(t, doc.Terms.DueDate.Equal(invoice.NewDate(2025, 6, 15)))
}

func TestNew_UnavailableStore_DefaultsWithoutError(t *testing.T) {
	// GIVEN: A non-interactive context with no storage backend
	// WHEN: Constructing a session and mutating it
	// THEN: Defaults are used and nothing raises; saves are no-ops

	gw := session.NewGateway(store.NewUnavailable(), nil)
	s := session.New(context.Background(), gw, nil, session.Options{Now: fixedNow})

	assert.Equal(t, invoice.MinStep, s.Workflow().Step)

	ctx := context.Background()
	s.Advance(ctx)
	s.AddItem(ctx)
	assert.Equal(t, 2, s.Workflow().Step)
	assert.Len(t, s.Document().Details.Items, 1)
}

func TestNew_CorruptStoredValues_Defaults(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	require.NoError(t, kv.Put(ctx, session.KeyStep, "not an int"))
	require.NoError(t, kv.Put(ctx, session.KeyData, "{{{"))

	gw := session.NewGateway(kv, nil)
	s := session.New(ctx, gw, nil, session.Options{Now: fixedNow})

	assert.Equal(t, invoice.MinStep, s.Workflow().Step)
	assert.Equal(t, invoice.DefaultInvoiceNumber, s.Document().Terms.InvoiceNumber)
}

func TestNew_ConfiguredDefaultLanguage(t *testing.T) {
	gw := session.NewGateway(store.NewMemory(), nil)
	s := session.New(context.Background(), gw, nil, session.Options{Now: fixedNow, Language: "es"})
	assert.Equal(t, "es", s.Workflow().Language)
}

// =============================================================================
// WORKFLOW CONTROLLER
// =============================================================================

func TestAdvance_ClampedAtUpperBound(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		s.Advance(ctx)
	}
	assert.Equal(t, invoice.MaxStep, s.Workflow().Step)

	// one more is a silent no-op
	s.Advance(ctx)
	assert.Equal(t, invoice.MaxStep, s.Workflow().Step)
}

func TestRetreat_ClampedAtLowerBound(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	s.Retreat(ctx)
	assert.Equal(t, invoice.MinStep, s.Workflow().Step)
}

func TestStepTransition_Persists(t *testing.T) {
	s, kv := newTestSession(t)
	before := kv.puts

	s.Advance(context.Background())
	assert.Greater(t, kv.puts, before, "a successful transition must persist")
}

func TestStepNoOp_DoesNotPersist(t *testing.T) {
	s, kv := newTestSession(t)
	before := kv.puts

	s.Retreat(context.Background()) // already at MinStep
	assert.Equal(t, before, kv.puts, "an out-of-range attempt must not persist")
}

// =============================================================================
// LINE-ITEM MUTATION PROTOCOL
// =============================================================================

func TestAddItem_FreshDefaults(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	a := s.AddItem(ctx)
	b := s.AddItem(ctx)

	require.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID, "ids must be unique")
	assert.Empty(t, a.Description)
	assert.True(t, a.Quantity.Equal(dec(1)))
	assert.True(t, a.Price.IsZero())
	assert.True(t, a.Amount.IsZero())
	assert.Len(t, s.Document().Details.Items, 2)
}

func TestUpdateItem_QuantityWrite_RecomputesAmount(t *testing.T) {
	// GIVEN: An item with price 5 and a stale amount
	// WHEN: Setting quantity to 3
	// THEN: Amount becomes 15 regardless of the prior value

	s, _ := newTestSession(t)
	ctx := context.Background()
	item := s.AddItem(ctx)

	_, err := s.UpdateItem(ctx, item.ID, session.FieldPrice, 5.0)
	require.NoError(t, err)
	ok, err := s.UpdateItem(ctx, item.ID, session.FieldQuantity, 3)
	require.NoError(t, err)
	require.True(t, ok)

	got := s.Document().Details.Items[0]
	assert.True(t, got.Amount.Equal(dec(15)), "amount should be 15, got %v", got.Amount)
}

func TestUpdateItem_DescriptionWrite_AmountUntouched(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	item := s.AddItem(ctx)
	_, err := s.UpdateItem(ctx, item.ID, session.FieldPrice, "9.99")
	require.NoError(t, err)

	ok, err := s.UpdateItem(ctx, item.ID, session.FieldDescription, "Consulting")
	require.NoError(t, err)
	require.True(t, ok)

	got := s.Document().Details.Items[0]
	assert.Equal(t, "Consulting", got.Description)
	assert.True(t, got.Amount.Equal(dec(9.99)), "qty 1 x 9.99")
}

func TestUpdateItem_UnknownID_NoOp(t *testing.T) {
	s, kv := newTestSession(t)
	before := kv.puts

	ok, err := s.UpdateItem(context.Background(), "missing", session.FieldQuantity, 2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, before, kv.puts, "a miss must not persist")
}

func TestUpdateItem_UnknownField_Error(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	item := s.AddItem(ctx)

	_, err := s.UpdateItem(ctx, item.ID, "amount", 100)
	assert.ErrorIs(t, err, invoice.ErrUnknownField)
}

func TestRemoveItem_Existing(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	a := s.AddItem(ctx)
	b := s.AddItem(ctx)

	require.True(t, s.RemoveItem(ctx, a.ID))

	items := s.Document().Details.Items
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)
}

func TestRemoveItem_Missing_NoWriteNoChange(t *testing.T) {
	s, kv := newTestSession(t)
	ctx := context.Background()
	s.AddItem(ctx)
	before := kv.puts

	assert.False(t, s.RemoveItem(ctx, "nope"))
	assert.Len(t, s.Document().Details.Items, 1)
	assert.Equal(t, before, kv.puts, "a miss must not trigger a persistence write")
}

// =============================================================================
// PERSISTENCE ROUND TRIP
// =============================================================================

func TestSession_RestoreAcrossProcessBoundary(t *testing.T) {
	// GIVEN: A session mutated and mirrored to the store
	// WHEN: A second session restores from the same store
	// THEN: Workflow and document match, dates arrive rich

	ctx := context.Background()
	kv := store.NewMemory()
	gw := session.NewGateway(kv, nil)

	s1 := session.New(ctx, gw, nil, session.Options{Now: fixedNow})
	s1.Advance(ctx)
	s1.Advance(ctx)
	s1.SetLanguage(ctx, "es")
	item := s1.AddItem(ctx)
	_, err := s1.UpdateItem(ctx, item.ID, session.FieldPrice, 20)
	require.NoError(t, err)
	s1.SetDetails(ctx, "EUR", "net 14", dec(10), dec(20))

	s2 := session.New(ctx, gw, nil, session.Options{Now: fixedNow})
	wf := s2.Workflow()
	assert.Equal(t, 3, wf.Step)
	assert.Equal(t, "es", wf.Language)

	doc := s2.Document()
	require.Len(t, doc.Details.Items, 1)
	assert.Equal(t, item.ID, doc.Details.Items[0].ID)
	assert.True(t, doc.Details.Items[0].Amount.Equal(dec(20)))
	assert.Equal(t, "EUR", doc.Details.Currency)
	assert.True(t, doc.Terms.IssueDate.IsRich(), "stored plain triples promote on restore")

	totals := s2.Totals()
	assert.True(t, totals.Total.Equal(dec(21.6)), "20 - 2 + 3.6, got %v", totals.Total)
}

// =============================================================================
// LIFECYCLE / IMPORT / EXPORT
// =============================================================================

func TestReset_FreshDocument_SelectionsSurvive(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	s.AddItem(ctx)
	s.Advance(ctx)
	s.SetLanguage(ctx, "es")
	s.SetTemplate(ctx, "modern")

	s.Reset(ctx)

	assert.Empty(t, s.Document().Details.Items)
	wf := s.Workflow()
	assert.Equal(t, invoice.MinStep, wf.Step)
	assert.Equal(t, "es", wf.Language)
	assert.Equal(t, "modern", wf.Template)
}

func TestImport_ReplacesDocumentAndPersists(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	s.AddItem(ctx)

	err := s.Import(ctx, `{"terms":{"invoiceNumber":"0099"},"details":{"currency":"GBP","items":[],"discount":0,"tax":0}}`)
	require.NoError(t, err)

	doc := s.Document()
	assert.Equal(t, "0099", doc.Terms.InvoiceNumber)
	assert.Equal(t, "GBP", doc.Details.Currency)
	assert.Empty(t, doc.Details.Items, "import replaces the entire document")
}

func TestImport_InvalidText_StateUnchanged(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()
	item := s.AddItem(ctx)

	err := s.Import(ctx, "not json")
	assert.ErrorIs(t, err, invoice.ErrInvalidImportFormat)

	items := s.Document().Details.Items
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)
}

func TestExport_FilenameFromInvoiceNumber(t *testing.T) {
	s, _ := newTestSession(t)

	body, filename, err := s.Export()
	require.NoError(t, err)
	assert.Equal(t, "invoice-001.json", filename)
	assert.Contains(t, string(body), `"invoiceNumber": "001"`)
}

func TestSetTerms_DatesStoredPlain(t *testing.T) {
	s, _ := newTestSession(t)

	s.SetTerms(context.Background(), invoice.Terms{
		InvoiceNumber: "7",
		IssueDate:     invoice.NewDate(2025, 1, 1).ToRich(),
		DueDate:       invoice.NewDate(2025, 1, 15).ToRich(),
	})

	terms := s.Document().Terms
	assert.False(t, terms.IssueDate.IsRich(), "dates are stored plain, promoted on demand")
	assert.False(t, terms.DueDate.IsRich())
}
