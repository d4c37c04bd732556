package providers

import "time"

const (
	// shutdownTimeout bounds blocking startup and shutdown work.
	shutdownTimeout = 30 * time.Second
)
