package commands

import (
	"errors"
	"strings"

	"cardtrack/internal/core/domain/model/kernel"
	"cardtrack/internal/pkg/guard"
)

var (
	ErrImportDeliveriesCommandIsNotConstructed = errors.New(
		"ImportDeliveriesCommand must be created via NewImportDeliveriesCommand constructor",
	)
	ErrFileNameIsRequired    = errors.New("file name is required")
	ErrConflictModeIsInvalid = errors.New("conflict mode must be skip or upsert")
)

// ConflictMode decides what happens to an upload row whose tracking number
// already exists in the store.
type ConflictMode string

const (
	// ConflictSkip counts the row as a duplicate and leaves the stored
	// delivery untouched. This is the default.
	ConflictSkip ConflictMode = "skip"

	// ConflictUpsert applies the row's fields to the stored delivery as
	// a regular change, subject to the transition policy.
	ConflictUpsert ConflictMode = "upsert"
)

// Validate reports whether the mode is one of the known values.
func (m ConflictMode) Validate() error {
	switch m {
	case ConflictSkip, ConflictUpsert:
		return nil
	}
	return ErrConflictModeIsInvalid
}

// ImportDeliveriesCommand represents a request to bulk-load deliveries from
// an uploaded spreadsheet. The rows themselves are streamed separately; the
// command carries only the upload metadata.
type ImportDeliveriesCommand struct { //nolint:recvcheck //using for validation
	fileName     string
	conflictMode ConflictMode
	actor        kernel.Actor
	source       string

	guard guard.ConstructorGuard
}

// NewImportDeliveriesCommand creates a command describing one upload.
// An empty conflict mode defaults to ConflictSkip.
func NewImportDeliveriesCommand(
	fileName string,
	conflictMode ConflictMode,
	actor kernel.Actor,
	source string,
) (ImportDeliveriesCommand, error) {
	if conflictMode == "" {
		conflictMode = ConflictSkip
	}

	cmd := ImportDeliveriesCommand{
		source: source,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setFileName(fileName),
		cmd.setConflictMode(conflictMode),
		cmd.setActor(actor),
	); err != nil {
		return ImportDeliveriesCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrImportDeliveriesCommandIsNotConstructed if validation fails.
func (c ImportDeliveriesCommand) Validate() error {
	return c.guard.Validate(ErrImportDeliveriesCommandIsNotConstructed)
}

// FileName returns the name of the uploaded file, recorded in the audit trail.
func (c ImportDeliveriesCommand) FileName() string {
	return c.fileName
}

// ConflictMode returns how rows with an existing tracking number are handled.
func (c ImportDeliveriesCommand) ConflictMode() ConflictMode {
	return c.conflictMode
}

// Actor returns the operator who uploaded the file.
func (c ImportDeliveriesCommand) Actor() kernel.Actor {
	return c.actor
}

// Source returns the channel the upload arrived through, possibly empty.
func (c ImportDeliveriesCommand) Source() string {
	return c.source
}

func (c *ImportDeliveriesCommand) setFileName(fileName string) error {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return ErrFileNameIsRequired
	}

	c.fileName = fileName
	return nil
}

func (c *ImportDeliveriesCommand) setConflictMode(mode ConflictMode) error {
	if err := mode.Validate(); err != nil {
		return err
	}

	c.conflictMode = mode
	return nil
}

func (c *ImportDeliveriesCommand) setActor(actor kernel.Actor) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	c.actor = actor
	return nil
}
