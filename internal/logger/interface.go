package logger

// Logger defines the interface for logging operations.
type Logger interface {
	Debug() *LogEvent
	Info() *LogEvent
	Warn() *LogEvent
	Error() *LogEvent
}

// Sink accepts a severity level and a fully formatted message. It is the
// contract diagnostics reporters write through.
type Sink interface {
	Send(level LogLevel, msg string)
}
