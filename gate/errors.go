package gate

import "errors"

// ErrUnauthorized is returned by HybridGate.Authorize on denial.
var ErrUnauthorized = errors.New("unauthorized")
