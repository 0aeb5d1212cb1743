/*
handlers.go - HTTP handlers for the invoice editing session

PURPOSE:
  Exposes the editing session via REST. Handles HTTP request/response and
  JSON serialization, and delegates every mutation to the session, which
  owns the document and the persistence discipline.

ENDPOINTS:
  GET    /api/invoice                 Full editor state
  PUT    /api/invoice/from            Replace sender section
  PUT    /api/invoice/to              Replace recipient section
  PUT    /api/invoice/details         Replace currency/note/rates
  PUT    /api/invoice/payment         Replace payment section
  PUT    /api/invoice/terms           Replace terms
  POST   /api/invoice/items           Add a line item
  PATCH  /api/invoice/items/{id}      Update one field of a line item
  DELETE /api/invoice/items/{id}      Remove a line item
  POST   /api/invoice/step/next       Advance the workflow
  POST   /api/invoice/step/prev       Retreat the workflow
  PUT    /api/invoice/language        Select display language
  PUT    /api/invoice/template        Select template
  POST   /api/invoice/reset           Replace with a fresh default document
  GET    /api/invoice/export          Download the document as a file
  POST   /api/invoice/import          Replace the document from user text
  GET    /api/templates               List available templates

ERROR HANDLING:
  - 400: Malformed body, invalid import text, bad field/value
  - 404: Unknown line-item id, unsupported language
  - 500: Serialization failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/warp/invoice-engine/i18n"
	"github.com/warp/invoice-engine/invoice"
	"github.com/warp/invoice-engine/session"
)

// importBodyLimit bounds user-supplied import text.
const importBodyLimit = 1 << 20

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Session *session.Session
	Log     *zap.Logger
}

// NewHandler creates a handler around one editing session.
func NewHandler(s *session.Session, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{Session: s, Log: log}
}

// =============================================================================
// STATE
// =============================================================================

// GetInvoice returns the full editor state.
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	h.respondState(w)
}

func (h *Handler) respondState(w http.ResponseWriter) {
	wf := h.Session.Workflow()
	labels, ok := i18n.Labels(wf.Language)
	if !ok {
		labels, _ = i18n.Labels(i18n.English)
	}
	h.respondJSON(w, http.StatusOK, StateDTO{
		Workflow: wf,
		Document: h.Session.Document(),
		Totals:   h.Session.Totals(),
		Labels:   labels,
	})
}

// =============================================================================
// SECTION UPDATES
// =============================================================================

func (h *Handler) UpdateFrom(w http.ResponseWriter, r *http.Request) {
	var from invoice.From
	if !h.decode(w, r, &from) {
		return
	}
	h.Session.SetFrom(r.Context(), from)
	h.respondState(w)
}

func (h *Handler) UpdateTo(w http.ResponseWriter, r *http.Request) {
	var to invoice.To
	if !h.decode(w, r, &to) {
		return
	}
	h.Session.SetTo(r.Context(), to)
	h.respondState(w)
}

func (h *Handler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	var req UpdateDetailsRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.Session.SetDetails(r.Context(), req.Currency, req.Note, req.Discount, req.Tax)
	h.respondState(w)
}

func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	var p invoice.Payment
	if !h.decode(w, r, &p) {
		return
	}
	h.Session.SetPayment(r.Context(), p)
	h.respondState(w)
}

func (h *Handler) UpdateTerms(w http.ResponseWriter, r *http.Request) {
	var t invoice.Terms
	if !h.decode(w, r, &t) {
		return
	}
	h.Session.SetTerms(r.Context(), t)
	h.respondState(w)
}

// =============================================================================
// LINE ITEMS
// =============================================================================

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	item := h.Session.AddItem(r.Context())
	h.respondJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpdateItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	ok, err := h.Session.UpdateItem(r.Context(), id, session.ItemField(req.Field), req.Value)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err)
		return
	}
	if !ok {
		h.respondError(w, http.StatusNotFound, invoice.ErrItemNotFound)
		return
	}
	h.respondState(w)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.Session.RemoveItem(r.Context(), id) {
		h.respondError(w, http.StatusNotFound, invoice.ErrItemNotFound)
		return
	}
	h.respondState(w)
}

// =============================================================================
// WORKFLOW
// =============================================================================

func (h *Handler) NextStep(w http.ResponseWriter, r *http.Request) {
	h.Session.Advance(r.Context())
	h.respondJSON(w, http.StatusOK, h.Session.Workflow())
}

func (h *Handler) PrevStep(w http.ResponseWriter, r *http.Request) {
	h.Session.Retreat(r.Context())
	h.respondJSON(w, http.StatusOK, h.Session.Workflow())
}

func (h *Handler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var req SetLanguageRequest
	if !h.decode(w, r, &req) {
		return
	}
	if !i18n.IsSupported(req.Language) {
		h.respondError(w, http.StatusNotFound,
			fmt.Errorf("unsupported language %q, supported: %v", req.Language, i18n.Supported()))
		return
	}
	h.Session.SetLanguage(r.Context(), req.Language)
	h.respondState(w)
}

func (h *Handler) SetTemplate(w http.ResponseWriter, r *http.Request) {
	var req SetTemplateRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Template == "" {
		h.respondError(w, http.StatusBadRequest, errors.New("template id is required"))
		return
	}
	h.Session.SetTemplate(r.Context(), req.Template)
	h.respondState(w)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.Session.Reset(r.Context())
	h.respondState(w)
}

// =============================================================================
// IMPORT / EXPORT
// =============================================================================

// Export streams the pretty-printed document as a file download named
// after the invoice number.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	body, filename, err := h.Session.Export()
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// Import replaces the document from the request body. Invalid text is a
// 400 and leaves the document untouched; partial documents are merged
// against defaults and succeed.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, importBodyLimit))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Errorf("read import body: %w", err))
		return
	}
	if err := h.Session.Import(r.Context(), string(body)); err != nil {
		if errors.Is(err, invoice.ErrInvalidImportFormat) {
			h.respondError(w, http.StatusBadRequest, err)
			return
		}
		h.respondError(w, http.StatusInternalServerError, err)
		return
	}
	h.respondState(w)
}

// =============================================================================
// TEMPLATES
// =============================================================================

func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, invoice.Templates())
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Errorf("decode request body: %w", err))
		return false
	}
	return true
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Log.Warn("encode response failed", zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, err error) {
	h.respondJSON(w, status, ErrorDTO{Error: err.Error()})
}
