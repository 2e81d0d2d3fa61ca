package postgres

import (
	"fmt"

	domerr "github.com/smartbiz-gst/smartbiz/pkg/domain/errors"
)

// requested data is missing.
type Missing struct {
	Table    string
	Identity string
}

var _ error = Missing{}

func (m Missing) Error() string {
	return fmt.Sprintf("%s is not found in %s", m.Identity, m.Table)
}
func (m Missing) Unwrap() error {
	return domerr.ErrMissing
}

// requested data collides with an existing row.
type Conflict struct {
	Table      string
	Constraint string
	Cause      error
}

var _ error = Conflict{}

func (c Conflict) Error() string {
	return fmt.Sprintf("conflict in %s (%s): %v", c.Table, c.Constraint, c.Cause)
}
func (c Conflict) Unwrap() []error {
	return []error{domerr.ErrConflict, c.Cause}
}

// requested transition does not change anything.
type InvalidState struct {
	Table    string
	Identity string
	State    string
}

var _ error = InvalidState{}

func (i InvalidState) Error() string {
	return fmt.Sprintf("%s in %s is already %s", i.Identity, i.Table, i.State)
}
func (i InvalidState) Unwrap() error {
	return domerr.ErrInvalidState
}
