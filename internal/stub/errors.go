package stub

import (
	"errors"
	"fmt"
)

// CheckpointNotFoundError indicates a restore did not pair with the
// checkpoint on top of the stack: either the stack is empty or the top
// was created under a different name. Checkpoints are strictly
// stack-disciplined; each create pairs with exactly one restore in
// matching, possibly nested, order.
type CheckpointNotFoundError struct {
	// Name is the checkpoint name the restore asked for.
	Name string
}

// Error implements the error interface.
func (e *CheckpointNotFoundError) Error() string {
	return fmt.Sprintf("no checkpoint named %q to restore; checkpoints must be restored in reverse creation order", e.Name)
}

// IsCheckpointNotFound returns true if the error is a checkpoint not
// found error. Uses errors.As to handle wrapped errors.
func IsCheckpointNotFound(err error) bool {
	var ce *CheckpointNotFoundError
	return errors.As(err, &ce)
}

// NewCheckpointNotFoundError creates a CheckpointNotFoundError.
func NewCheckpointNotFoundError(name string) *CheckpointNotFoundError {
	return &CheckpointNotFoundError{Name: name}
}
