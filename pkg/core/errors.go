package core

import "errors"

// Error taxonomy. All failures are local validation errors detected
// synchronously at the call site; nothing here is retryable. Callers classify
// with errors.Is, so every error returned by the engine wraps exactly one of
// these sentinels.
var (
	// ErrLabelKindConflict: a label name is already declared under the other
	// kind (vertex vs edge).
	ErrLabelKindConflict = errors.New("label already declared with a different kind")

	// ErrUnknownLabel: an insert or query references a label that was never
	// declared. Distinct from a query that matches nothing, which is a valid
	// empty result.
	ErrUnknownLabel = errors.New("unknown label")

	// ErrDanglingEndpoint: an edge insert references a vertex id that does
	// not resolve.
	ErrDanglingEndpoint = errors.New("edge endpoint does not exist")

	// ErrNotFound: point get on a nonexistent record id.
	ErrNotFound = errors.New("record not found")

	// ErrVertexInUse: vertex delete refused while edges still reference it.
	// Delete the referencing edges first.
	ErrVertexInUse = errors.New("vertex still referenced by edges")
)
