package gate

import "errors"

// ErrUnknown is returned when a resolver has no value for a key.
var ErrUnknown = errors.New("unknown key")
