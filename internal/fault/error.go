package fault

// Error is an error that remembers where it was created. Record building
// picks its frames up so a cause deep in the chain keeps its own stack.
type Error struct {
	msg    string
	cause  error
	frames []Frame
}

// New returns an error carrying the caller's stack.
func New(msg string) error {
	return &Error{msg: msg, frames: Callers(1)}
}

// Wrap returns an error that wraps cause and carries the caller's stack.
// Wrap(nil, msg) behaves like New(msg).
func Wrap(cause error, msg string) error {
	return &Error{msg: msg, cause: cause, frames: Callers(1)}
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return e.msg + ": " + e.cause.Error()
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.cause }

// StackFrames returns a copy of the frames captured at creation.
func (e *Error) StackFrames() []Frame {
	return append([]Frame(nil), e.frames...)
}
