package arbor

// Logger is the hierarchical logging contract used by the resolver and
// scheduler to report progress. internal/buildlog's Logger is the
// implementation the CLI uses; tests may substitute a no-op or recording
// stub.
type Logger interface {
	// PushContext enters a (project, target) scope; every subsequent
	// log line is tagged with it until the matching PopContext.
	PushContext(project, target string)
	PopContext()

	Error(msg string, err error)
	Warn(msg string, err error)
	Info(msg string)
	Debug(msg string)

	// StartProgress begins a named progress line, returning an opaque
	// id used to update or complete it.
	StartProgress(label string) string
	UpdateProgress(id, message string)
	CompleteProgress(id, message string)
}

// NopLogger discards everything. Used as the default when arbor.Run is
// called without WithLogger, and in tests that don't care about log
// output.
type NopLogger struct{}

func (NopLogger) PushContext(project, target string) {}
func (NopLogger) PopContext()                        {}
func (NopLogger) Error(msg string, err error)         {}
func (NopLogger) Warn(msg string, err error)          {}
func (NopLogger) Info(msg string)                     {}
func (NopLogger) Debug(msg string)                    {}
func (NopLogger) StartProgress(label string) string   { return "" }
func (NopLogger) UpdateProgress(id, message string)   {}
func (NopLogger) CompleteProgress(id, message string) {}
