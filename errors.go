package kommit

import (
	"errors"

	"github.com/helixml/kommit/application/service"
)

// Exported errors for library consumers.
var (
	// ErrNoTextProvider indicates no completion provider was configured.
	ErrNoTextProvider = errors.New("kommit: no text provider configured")

	// ErrClientClosed indicates the client has been closed.
	ErrClientClosed = service.ErrClientClosed
)
