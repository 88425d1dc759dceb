package models

import "errors"

// ErrValidation marks malformed or missing input. Wrap it with fmt.Errorf to say
// which field failed.
var ErrValidation = errors.New("validation failed")
