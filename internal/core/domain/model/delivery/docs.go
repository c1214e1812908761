// Package delivery provides domain entities and business logic for tracking
// physical card shipments. It implements the Delivery aggregate root with
// lifecycle management and audited field changes.
//
// The package includes:
//   - Delivery: The aggregate root that manages identity, shipment fields,
//     status lifecycle, and the optimistic concurrency version
//   - Status: The canonical status enumeration with an explicit,
//     overridable transition policy
//   - FieldUpdates / FieldChange: The field-level diff protocol that feeds
//     the audit ledger exactly one entry per logical change
//
// Key business rules:
//   - Tracking numbers are unique across all deliveries (enforced by the store)
//   - Status is always one of the five canonical values
//   - Status transitions follow a TransitionPolicy; the default policy
//     permits progressive flows and blocks regressions out of Delivered
//   - The updated timestamp is never earlier than the created timestamp
//   - Deliveries are never physically deleted; terminal states are reached
//     by status value
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package delivery
