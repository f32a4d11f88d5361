package optimiser

import "errors"

// ErrInfeasible reports that a stage's constraint set admits no feasible
// schedule. It is a deterministic property of the inputs, never retried, and
// is distinct from a zero-revenue optimum.
var ErrInfeasible = errors.New("optimiser: no feasible schedule for the given parameters")

// ErrSequencing reports that the intra-day stage was invoked without a prior
// successful day-ahead solution. This is a caller contract violation, not a
// solver failure.
var ErrSequencing = errors.New("optimiser: intra-day stage requires a solved day-ahead stage")
