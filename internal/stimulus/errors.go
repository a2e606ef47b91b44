package stimulus

import (
	"fmt"

	"github.com/mthomasen/stimuli-cli/internal/model"
)

// InsufficientCandidatesError reports a design cell with too few eligible
// records to sample. Fatal: every downstream balance invariant depends on
// exact cell size, so the build must not silently truncate.
type InsufficientCandidatesError struct {
	Cell model.Cell
	Need int
	Have int
}

func (e *InsufficientCandidatesError) Error() string {
	return fmt.Sprintf("stimulus: cell %s has %d eligible records, need %d (short %d)",
		e.Cell, e.Have, e.Need, e.Need-e.Have)
}
