package audit

import (
	"fmt"
	"strings"
	"time"

	"cardtrack/internal/core/domain/model/kernel"
	"cardtrack/internal/pkg/errs"
)

// Page limits for ledger queries. The ledger is unbounded and append-only,
// so every read is paged.
const (
	DefaultPageLimit = 100
	MaxPageLimit     = 1000
)

// Filter narrows a ledger query to one subject. Empty fields match everything.
type Filter struct {
	EntityType string
	EntityID   string
}

// Page requests one page of a newest-first ledger read. Cursor is the opaque
// token returned by the previous page; empty means start from the newest
// entry. A non-positive Limit uses DefaultPageLimit; limits above
// MaxPageLimit are clamped.
type Page struct {
	Limit  int
	Cursor string
}

// Normalize clamps the limit into the supported range.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

// CursorKey is the keyset position of the last entry of a page: entries
// strictly older than (Timestamp, ID) belong to the next page. The id
// breaks ties between entries sharing a timestamp.
type CursorKey struct {
	Timestamp time.Time
	ID        kernel.UUID
}

// EncodeCursor renders a cursor key as the opaque token handed to callers.
func EncodeCursor(key CursorKey) string {
	return key.Timestamp.UTC().Format(time.RFC3339Nano) + "|" + key.ID.String()
}

// DecodeCursor parses an opaque cursor token back into a keyset position.
func DecodeCursor(cursor string) (CursorKey, error) {
	parts := strings.SplitN(cursor, "|", 2)
	if len(parts) != 2 {
		return CursorKey{}, errs.NewValueIsInvalidErrorWithCause("cursor", fmt.Errorf("%q is not a cursor token", cursor))
	}

	ts, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return CursorKey{}, errs.NewValueIsInvalidErrorWithCause("cursor", err)
	}

	id, err := kernel.UUIDFromString(parts[1])
	if err != nil {
		return CursorKey{}, errs.NewValueIsInvalidErrorWithCause("cursor", err)
	}

	return CursorKey{Timestamp: ts, ID: id}, nil
}
