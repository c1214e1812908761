package services

import (
	"strings"
	"time"

	"cardtrack/internal/core/domain/model/delivery"
	"cardtrack/internal/pkg/errs"
)

// Field identifies a canonical delivery attribute a spreadsheet column can map to.
type Field string

const (
	FieldCardNumber   Field = "cardNumber"
	FieldRecipient    Field = "recipient"
	FieldAddress      Field = "address"
	FieldCourier      Field = "courier"
	FieldStatus       Field = "status"
	FieldExpectedDate Field = "expectedDate"
)

// NormalizedRow is a spreadsheet row reduced to canonical delivery fields.
// CardNumber, Recipient and Address must be non-empty for the row to be valid;
// the remaining fields are optional.
type NormalizedRow struct {
	CardNumber   string
	Recipient    string
	Address      string
	Courier      string
	Status       delivery.Status
	ExpectedDate *time.Time
}

// RowNormalizer is a domain service responsible for mapping heterogeneous
// spreadsheet rows onto canonical delivery fields during bulk ingestion.
//
// Key responsibilities:
//   - Resolving column headers to canonical fields regardless of casing,
//     spacing and common naming variants
//   - Normalizing free-form status text to the canonical status vocabulary
//   - Validating that a row carries the minimum data to create a delivery
//
// Business rules:
//   - A row is valid only when card number, recipient and address are all
//     present after trimming
//   - Unrecognized status text maps to Pending rather than failing the row
//   - Unparseable expected dates are dropped, not rejected
type RowNormalizer struct{}

// NewRowNormalizer creates a new RowNormalizer instance.
func NewRowNormalizer() RowNormalizer {
	return RowNormalizer{}
}

// headerVariants maps lowercased, trimmed column headers to canonical fields.
// Header resolution is deliberately forgiving: operators export spreadsheets
// from several upstream systems with no shared template.
var headerVariants = map[string]Field{
	"card #":          FieldCardNumber,
	"card#":           FieldCardNumber,
	"card number":     FieldCardNumber,
	"card no":         FieldCardNumber,
	"card no.":        FieldCardNumber,
	"cardnumber":      FieldCardNumber,
	"tracking #":      FieldCardNumber,
	"tracking number": FieldCardNumber,
	"trackingnumber":  FieldCardNumber,

	"recipient":      FieldRecipient,
	"recipient name": FieldRecipient,
	"recipientname":  FieldRecipient,
	"customer":       FieldRecipient,
	"customer name":  FieldRecipient,

	"address":          FieldAddress,
	"delivery address": FieldAddress,
	"deliveryaddress":  FieldAddress,

	"courier": FieldCourier,
	"carrier": FieldCourier,
	"vendor":  FieldCourier,

	"status":          FieldStatus,
	"delivery status": FieldStatus,

	"expected date":          FieldExpectedDate,
	"expecteddate":           FieldExpectedDate,
	"expected delivery":      FieldExpectedDate,
	"expected delivery date": FieldExpectedDate,
	"eta":                    FieldExpectedDate,
}

// statusVocabulary maps status text as it appears in upstream spreadsheets to
// canonical statuses. The table is exhaustive: any text not listed here maps
// to Pending. Lookup is on lowercased, trimmed input.
var statusVocabulary = map[string]delivery.Status{
	"pending":    delivery.Pending,
	"shipped":    delivery.Shipped,
	"in transit": delivery.Shipped,
	"delivered":  delivery.Delivered,
	"failed":     delivery.Failed,
	"delayed":    delivery.Delayed,
}

// expectedDateLayouts lists the date formats accepted for the expected date
// column, tried in order.
var expectedDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
}

// NormalizeHeader resolves a raw column header to its canonical field.
// The second return value reports whether the header is recognized;
// unrecognized columns are ignored by the ingestion pipeline.
func (RowNormalizer) NormalizeHeader(header string) (Field, bool) {
	field, ok := headerVariants[strings.ToLower(strings.TrimSpace(header))]
	return field, ok
}

// NormalizeStatus maps free-form status text to a canonical status.
// Anything outside the vocabulary maps to Pending.
func (RowNormalizer) NormalizeStatus(raw string) delivery.Status {
	if status, ok := statusVocabulary[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return status
	}
	return delivery.Pending
}

// NormalizeRow converts raw cell values keyed by canonical field into a
// NormalizedRow. Missing status maps to Pending, missing courier is left
// empty for the aggregate to default, and an expected date that matches no
// known layout is dropped.
//
// Returns errs.ValueIsRequiredError when card number, recipient or address
// is empty after trimming.
func (n RowNormalizer) NormalizeRow(cells map[Field]string) (NormalizedRow, error) {
	row := NormalizedRow{
		CardNumber: strings.TrimSpace(cells[FieldCardNumber]),
		Recipient:  strings.TrimSpace(cells[FieldRecipient]),
		Address:    strings.TrimSpace(cells[FieldAddress]),
		Courier:    strings.TrimSpace(cells[FieldCourier]),
		Status:     n.NormalizeStatus(cells[FieldStatus]),
	}

	if row.CardNumber == "" {
		return NormalizedRow{}, errs.NewValueIsRequiredError(string(FieldCardNumber))
	}
	if row.Recipient == "" {
		return NormalizedRow{}, errs.NewValueIsRequiredError(string(FieldRecipient))
	}
	if row.Address == "" {
		return NormalizedRow{}, errs.NewValueIsRequiredError(string(FieldAddress))
	}

	if raw := strings.TrimSpace(cells[FieldExpectedDate]); raw != "" {
		for _, layout := range expectedDateLayouts {
			if parsed, err := time.Parse(layout, raw); err == nil {
				parsed = parsed.UTC()
				row.ExpectedDate = &parsed
				break
			}
		}
	}

	return row, nil
}

// ResolveColumns maps a header row to column indexes keyed by canonical field.
// When several columns resolve to the same field the first one wins. Returns
// errs.ValueIsRequiredError when the card number column is missing: without
// it no row in the file can be valid.
func (n RowNormalizer) ResolveColumns(headers []string) (map[Field]int, error) {
	columns := make(map[Field]int, len(headers))
	for i, header := range headers {
		field, ok := n.NormalizeHeader(header)
		if !ok {
			continue
		}
		if _, taken := columns[field]; taken {
			continue
		}
		columns[field] = i
	}

	if _, ok := columns[FieldCardNumber]; !ok {
		return nil, errs.NewValueIsRequiredError(string(FieldCardNumber))
	}
	return columns, nil
}

// CellsFromRecord extracts canonical cells from a positional record using the
// column mapping produced by ResolveColumns. Records shorter than a mapped
// index simply omit that field.
func (RowNormalizer) CellsFromRecord(columns map[Field]int, record []string) map[Field]string {
	cells := make(map[Field]string, len(columns))
	for field, i := range columns {
		if i < len(record) {
			cells[field] = record[i]
		}
	}
	return cells
}
