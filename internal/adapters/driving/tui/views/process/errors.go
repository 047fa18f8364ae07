package process

import "errors"

// ErrNoSessionService is returned when the session service is not configured.
var ErrNoSessionService = errors.New("session service not available")
