package resources

import "fmt"

// State is the closed set of lifecycle states a resource can be in.
type State int

const (
	// Never attempted, or deliberately deferred by its loader.
	StateUnloaded State = iota
	// A read is outstanding, or the loader wants to block further attempts.
	StateLoading
	// Usable.
	StateLoaded
	// The last attempt failed; a fresh reload may retry.
	StateError
)

// Status describes one resource's loading lifecycle. The message is only
// meaningful in StateError.
type Status struct {
	State   State
	Message string
}

func Unloaded() Status {
	return Status{State: StateUnloaded}
}

func Loading() Status {
	return Status{State: StateLoading}
}

func Loaded() Status {
	return Status{State: StateLoaded}
}

func Errorf(format string, args ...interface{}) Status {
	return Status{State: StateError, Message: fmt.Sprintf(format, args...)}
}

// String returns the stable human-readable form of the status.
func (s Status) String() string {
	switch s.State {
	case StateUnloaded:
		return "Not yet loaded"
	case StateLoading:
		return "Loading"
	case StateLoaded:
		return "Loaded"
	case StateError:
		return "Error: " + s.Message
	}
	return fmt.Sprintf("Unknown(%d)", int(s.State))
}
