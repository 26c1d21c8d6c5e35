package catcher

var _ error = (*Error)(nil)

// Error adds a user-friendly help message to catcher errors.
type Error struct {
	help string
	msg  string
}

// Help is displayed to the user if this error is ever returned.
func (e *Error) Help() string {
	return e.help
}

// Error returns the error message.
func (e *Error) Error() string {
	return e.msg
}

var (
	// ErrEndpoint is returned by New when the collector endpoint cannot be parsed.
	ErrEndpoint = &Error{
		msg: "invalid collector endpoint",
		help: `The collector endpoint built from CATCHER_HOST could not be parsed as a URL.
CATCHER_HOST is expected to be a host name, e.g. "collector.example.com:3000",
or an absolute URL, e.g. "https://collector.example.com".`,
	}

	// ErrReport is returned when the event could not be delivered to the collector.
	ErrReport = &Error{
		msg: "unable to report fault",
		help: `The fault was captured but the collector did not accept it.
Check that CATCHER_HOST points at a running collector and that CATCHER_TOKEN is a valid integration token.`,
	}
)
