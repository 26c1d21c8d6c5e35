package http

import (
	"net/http"
	"time"
)

// DefaultClient is used when no HTTPDoer is supplied.
// The timeout bounds the single report request; nothing retries it.
var DefaultClient = &http.Client{
	Timeout: 30 * time.Second,
}
