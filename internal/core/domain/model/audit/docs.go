// Package audit provides the immutable audit ledger entry and its query
// vocabulary.
//
// The package includes:
//   - Entry: A write-once record of a single change to a delivery or a
//     batch action; entries are never updated or deleted after creation
//   - Action: The enumerated kind of change an entry records
//   - Filter, Page, CursorKey: The query protocol for reading the ledger
//     newest-first with restartable keyset pagination
//
// Entries reference their subject by entity type and id only. The ledger
// never holds a structural reference to the delivery store; linkage is by
// subject-id lookup.
package audit
