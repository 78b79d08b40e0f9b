package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	domerr "github.com/kevintatou/sparktest/pkg/domain/errors"
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

// requested change violates a constraint.
type Conflict struct {
	Table      string
	Constraint string
	Cause      error
}

var _ error = Conflict{}

func (c Conflict) Error() string {
	return fmt.Sprintf("conflict in %s (%s): %s", c.Table, c.Constraint, c.Cause)
}

func (c Conflict) Unwrap() []error {
	return []error{domerr.ErrConflict, c.Cause}
}

// Classify translates constraint violations into domain errors.
//
// Unique violations are Conflict, and foreign key violations are Missing
// (the referred row does not exist). Other errors are returned as they are.
func Classify(err error, table string) error {
	if err == nil {
		return nil
	}
	pgerr := new(pgconn.PgError)
	if !errors.As(err, &pgerr) {
		return err
	}
	switch pgerr.Code {
	case pgerrcode.UniqueViolation:
		return Conflict{Table: table, Constraint: pgerr.ConstraintName, Cause: err}
	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w: %w", Missing{Table: pgerr.TableName, Identity: pgerr.Detail}, err)
	default:
		return err
	}
}
