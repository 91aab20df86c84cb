package observe

// NotificationKind
type NotificationKind string

const (
	// NextKind indicates the next value in the downstream
	NextKind NotificationKind = "NextKind"
	// ErrorKind indicates the stream failed. It is terminal.
	ErrorKind NotificationKind = "ErrorKind"
	// CompleteKind indicates the stream finished. It is terminal.
	CompleteKind NotificationKind = "CompleteKind"
)

type Notification[T any] interface {
	Kind() NotificationKind
	Value() T // returns the underlying value if it's a "Next" notification
	Err() error
	IsTerminal() bool
}

type notification[T any] struct {
	kind NotificationKind
	v    T
	err  error
}

var _ Notification[any] = (*notification[any])(nil)

func (d notification[T]) Kind() NotificationKind {
	return d.kind
}

func (d notification[T]) Value() T {
	return d.v
}

func (d notification[T]) Err() error {
	return d.err
}

func (d notification[T]) IsTerminal() bool {
	return d.kind == ErrorKind || d.kind == CompleteKind
}

func Next[T any](v T) Notification[T] {
	return &notification[T]{kind: NextKind, v: v}
}

func Error[T any](err error) Notification[T] {
	return &notification[T]{kind: ErrorKind, err: err}
}

func Complete[T any]() Notification[T] {
	return &notification[T]{kind: CompleteKind}
}
