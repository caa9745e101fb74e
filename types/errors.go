package types

import "errors"

var (
	// ErrValidation reports malformed input: wrong dimensionality, mismatched
	// shapes, too few polygon vertices.
	ErrValidation = errors.New("validation error")
	// ErrParameterRange reports a parameter outside its published domain.
	ErrParameterRange = errors.New("parameter out of range")
	// ErrUnsupported reports a configuration selector with no implementation,
	// e.g. an unknown transform or stretching kind.
	ErrUnsupported = errors.New("unsupported configuration")
	// ErrMissingVariable reports a required dataset variable that is absent.
	ErrMissingVariable = errors.New("missing variable")
)
