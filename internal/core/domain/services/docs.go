// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the card delivery system. It implements
// logic that doesn't naturally belong to a single aggregate root.
//
// The package includes:
//   - RowNormalizer: A domain service that maps heterogeneous spreadsheet rows
//     to canonical delivery fields during bulk ingestion
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
