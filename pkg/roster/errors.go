package roster

import (
	"fmt"
	"strings"
)

// PartialConsistencyError is returned by the sequential strategy when the
// canonical write went through but a dependent roster write did not. The
// player collection changed; the rosters listed in Failed and Pending did not.
type PartialConsistencyError struct {
	Operation string
	Applied   []string
	Failed    string
	Pending   []string
	Err       error
}

func (e *PartialConsistencyError) Error() string {
	return fmt.Sprintf("%s partially applied: applied [%s], failed %s, pending [%s]: %v",
		e.Operation,
		strings.Join(e.Applied, ", "),
		e.Failed,
		strings.Join(e.Pending, ", "),
		e.Err,
	)
}

func (e *PartialConsistencyError) Unwrap() error {
	return e.Err
}
