package logger

import "github.com/rs/zerolog"

type zerologSink struct {
	component string
	logger    *zerolog.Logger
}

// NewSink returns a Sink that writes through the global logger, tagging
// every entry with the given component name.
func NewSink(component string) Sink {
	return &zerologSink{component: component}
}

// NewSinkWithLogger returns a Sink bound to an explicit zerolog.Logger
func NewSinkWithLogger(component string, l zerolog.Logger) Sink {
	return &zerologSink{component: component, logger: &l}
}

func (s *zerologSink) Send(level LogLevel, msg string) {
	l := s.logger
	if l == nil {
		l = &log
	}

	var event *zerolog.Event
	switch level {
	case DebugLevel:
		event = l.Debug()
	case WarnLevel:
		event = l.Warn()
	case ErrorLevel, FatalLevel:
		// The sink never terminates the process, fatal entries are logged as errors.
		event = l.Error()
	default:
		event = l.Info()
	}

	event.Str("component", s.component).Msg(msg)
}
