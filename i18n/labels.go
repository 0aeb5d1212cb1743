// Package i18n carries the fixed label tables for invoice display.
// Two languages are supported; the tables are keyed by label key, not by
// sentence, so the rendering surface can place them freely.
package i18n

// Supported language codes.
const (
	English = "en"
	Spanish = "es"
)

var english = map[string]string{
	"invoice":       "INVOICE",
	"invoiceNo":     "INVOICE NO:",
	"issued":        "ISSUED:",
	"dueDate":       "DUE DATE:",
	"from":          "From",
	"to":            "To",
	"description":   "DESCRIPTION",
	"quantity":      "QTY.",
	"price":         "PRICE",
	"total":         "TOTAL",
	"subtotal":      "Subtotal:",
	"discount":      "Discount",
	"tax":           "Tax",
	"totalLabel":    "Total:",
	"note":          "Note:",
	"bankDetails":   "Bank Details",
	"bank":          "Bank Name",
	"accountNumber": "Account Number",
	"accountName":   "Account Name",
	"swiftCode":     "Swift Code",
	"routingNumber": "Routing Code",
	"ifscCode":      "IFSC Code",
	"payableIn":     "PAYABLE IN:",
	"taxId":         "Tax ID:",
}

var spanish = map[string]string{
	"invoice":       "FACTURA",
	"invoiceNo":     "FACTURA NO:",
	"issued":        "EMITIDA:",
	"dueDate":       "FECHA DE VENCIMIENTO:",
	"from":          "De",
	"to":            "Para",
	"description":   "DESCRIPCIÓN",
	"quantity":      "CANT.",
	"price":         "PRECIO",
	"total":         "TOTAL",
	"subtotal":      "Subtotal:",
	"discount":      "Descuento",
	"tax":           "Impuesto",
	"totalLabel":    "Total:",
	"note":          "Nota:",
	"bankDetails":   "Detalles Bancarios",
	"bank":          "Nombre del Banco",
	"accountNumber": "Número de Cuenta",
	"accountName":   "Nombre de la Cuenta",
	"swiftCode":     "Swift Code",
	"routingNumber": "Routing Code",
	"ifscCode":      "IFSC Code",
	"payableIn":     "PAGABLE EN:",
	"taxId":         "Tax ID:",
}

var tables = map[string]map[string]string{
	English: english,
	Spanish: spanish,
}

// Labels returns the label table for lang, and whether lang is supported.
// The returned map is shared; callers must not mutate it.
func Labels(lang string) (map[string]string, bool) {
	t, ok := tables[lang]
	return t, ok
}

// IsSupported reports whether lang has a label table.
func IsSupported(lang string) bool {
	_, ok := tables[lang]
	return ok
}

// Supported lists the supported language codes.
func Supported() []string {
	return []string{English, Spanish}
}
