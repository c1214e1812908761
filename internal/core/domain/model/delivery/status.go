package delivery

import (
	"fmt"

	"cardtrack/internal/pkg/errs"
)

// Status represents the lifecycle state of a card delivery.
// It implements a state machine whose legal transitions are supplied by a
// TransitionPolicy rather than hard-coded, because the intended business
// policy varies between operators.
//
// Default policy transitions:
//
//	Pending ──┬──> Shipped ──> Delivered
//	          │       │
//	          │       ├──> Delayed ──> Shipped / Delivered / Failed
//	          │       └──> Failed ───> Pending / Shipped
//	          └──> Failed / Delayed
//
// Delivered is terminal under the default policy.
//
// Status is a value object that validates state values and provides string
// representations for persistence, audit entries, and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status for every created delivery,
	// whether entered manually or through bulk ingestion.
	Pending

	// Shipped indicates the card is in transit with the courier.
	Shipped

	// Delivered indicates the card reached the recipient.
	// Terminal under the default transition policy.
	Delivered

	// Failed indicates the delivery attempt did not succeed and the
	// record requires exception review.
	Failed

	// Delayed indicates the delivery missed its expected date and the
	// record requires exception review.
	Delayed
)

// getStatusStrings returns a map of Status values to their string representations.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		Shipped:   "Shipped",
		Delivered: "Delivered",
		Failed:    "Failed",
		Delayed:   "Delayed",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "Pending",
		Shipped:   "Shipped",
		Delivered: "Delivered",
		Failed:    "Failed",
		Delayed:   "Delayed",
	}
}

// ParseStatus converts a canonical status string into a Status value.
// Only the five canonical names are accepted; vocabulary normalization for
// heterogeneous upload formats happens in the ingest normalizer, not here.
func ParseStatus(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a canonical status", s))
}

// Validate checks if the Status value is valid.
//
// Valid statuses are: Pending, Shipped, Delivered, Failed, Delayed.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Returns "Unknown" for invalid status values. Implements fmt.Stringer and
// is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsException reports whether the status marks the delivery for manual
// review in the exception workflow.
func (s Status) IsException() bool {
	return s == Failed || s == Delayed
}

// TransitionPolicy defines which status transitions are legal.
// It maps each status to the set of statuses it may move to. A status
// missing from the map allows no outgoing transitions.
//
// Policies are plain data so operators can supply their own table; the
// aggregate consults the policy on every status change.
type TransitionPolicy map[Status][]Status

// DefaultTransitionPolicy returns the standard policy: progressive flows
// are allowed, exception states can recover, and Delivered is terminal.
func DefaultTransitionPolicy() TransitionPolicy {
	return TransitionPolicy{
		Pending: {Shipped, Failed, Delayed},
		Shipped: {Delivered, Failed, Delayed},
		Delayed: {Shipped, Delivered, Failed},
		Failed:  {Pending, Shipped},
	}
}

// AnyTransitionPolicy returns a policy permitting every transition between
// valid statuses. It reproduces the unconstrained behavior of the legacy
// system for operators who depend on it.
func AnyTransitionPolicy() TransitionPolicy {
	all := []Status{Pending, Shipped, Delivered, Failed, Delayed}
	policy := make(TransitionPolicy, len(all))
	for _, from := range all {
		policy[from] = all
	}
	return policy
}

// ValidateTransition checks whether moving from one status to another is
// legal under the policy. Self-transitions are treated as no-ops upstream
// and are not consulted here.
func (p TransitionPolicy) ValidateTransition(from, to Status) error {
	if err := from.Validate(); err != nil {
		return err
	}
	if err := to.Validate(); err != nil {
		return err
	}

	for _, allowed := range p[from] {
		if allowed == to {
			return nil
		}
	}

	return errs.NewValueIsInvalidErrorWithCause(
		"status",
		fmt.Errorf("transition %s -> %s is not allowed", from.String(), to.String()),
	)
}
