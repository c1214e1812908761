// Package kernel provides shared value objects for the card delivery tracker
// domain model.
//
// The package includes:
//   - UUID: An immutable identifier value object wrapping github.com/google/uuid
//   - Actor: The identity attributed to a mutation for audit purposes,
//     including the "System" sentinel for unattended operations
//   - ConstructorGuard: A defensive pattern ensuring value objects are
//     created through their constructors
//
// Kernel types are immutable and safe for concurrent use. They carry no
// dependencies on other domain packages, keeping the dependency direction
// strictly inward.
package kernel
