package instrumentation

// Logger writes one line per call. The activity names the component emitting the line and is
// rendered as its tag. Implementations must never fail observably to the caller.
type Logger interface {
	Debug(activity string, message string)
	Info(activity string, message string)
	Warn(activity string, message string)
	Error(activity string, message string)
}

type NilLogger struct{}

func (*NilLogger) Debug(string, string) {}
func (*NilLogger) Info(string, string)  {}
func (*NilLogger) Warn(string, string)  {}
func (*NilLogger) Error(string, string) {}
