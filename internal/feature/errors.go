package feature

import "errors"

// ErrInsufficientData reports that too few usable rows remain after lag
// construction for the requested evaluation.
var ErrInsufficientData = errors.New("insufficient data after lag construction")
