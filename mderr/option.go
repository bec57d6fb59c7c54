package mderr

// Option is an Error option function
type Option func(*Error)

func WithMessage(msg string) Option  { return func(e *Error) { e.Message = msg } }
func WithDocument(doc string) Option { return func(e *Error) { e.Document = doc } }
func WithLine(line, col int) Option  { return func(e *Error) { e.Line, e.Column = line, col } }
