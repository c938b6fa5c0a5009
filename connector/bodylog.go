package connector

import (
	"context"
	"strings"

	"github.com/kdg/connector/logger"
)

const (
	// RedactionMarker replaces bodies that must not be logged.
	RedactionMarker = "[Omitted]"
	// Divider frames logged bodies so they stand out in console output.
	Divider = "================================================="
)

// Sensitivity tells a BodyLogger whether a body may be written verbatim.
type Sensitivity int

const (
	// Visible bodies are logged as-is.
	Visible Sensitivity = iota
	// Redacted bodies are replaced with RedactionMarker.
	Redacted
)

// Direction is the flow of a logged body.
type Direction string

const (
	Outgoing Direction = "request"
	Incoming Direction = "response"
)

// BodyEvent describes a request or response body about to be logged.
type BodyEvent struct {
	Connector  string
	Direction  Direction
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

// BodyLogger records request and response bodies. Implementations must
// never write the body of a Redacted event.
type BodyLogger interface {
	LogBody(ctx context.Context, ev BodyEvent, s Sensitivity)
}

// BodyLoggerFunc adapts a function to BodyLogger.
type BodyLoggerFunc func(ctx context.Context, ev BodyEvent, s Sensitivity)

// LogBody implements BodyLogger.
func (f BodyLoggerFunc) LogBody(ctx context.Context, ev BodyEvent, s Sensitivity) {
	f(ctx, ev, s)
}

// NewBodyLogger returns the default BodyLogger. It writes framed bodies
// through l at l's body level, truncated to its body limit.
func NewBodyLogger(l *logger.Logger) BodyLogger {
	return &zerologBodyLogger{log: l}
}

type zerologBodyLogger struct {
	log *logger.Logger
}

func (b *zerologBodyLogger) LogBody(ctx context.Context, ev BodyEvent, s Sensitivity) {
	if !b.log.BodyEnabled() {
		return
	}
	fields := logger.Fields(
		logger.FieldDirection, string(ev.Direction),
		logger.FieldMethod, ev.Method,
		logger.FieldURL, ev.URL,
		logger.FieldBodyLength, len(ev.Body),
	)
	if ev.StatusCode > 0 {
		fields[logger.FieldStatus] = ev.StatusCode
	}
	if s == Visible {
		ev.Body = b.log.TruncateBody(ev.Body)
	}
	b.log.WithContext(ctx).Body(FormatBody(ev, s), fields)
}

// FormatBody renders a body framed by dividers, honouring s.
func FormatBody(ev BodyEvent, s Sensitivity) string {
	content := RedactionMarker
	if s == Visible {
		content = string(ev.Body)
	}
	title := "Request:"
	if ev.Direction == Incoming {
		title = "Response:"
	}
	if ev.Connector != "" {
		title = ev.Connector + " " + title
	}

	var sb strings.Builder
	sb.Grow(len(content) + 2*len(Divider) + len(title) + 4)
	sb.WriteString("\n")
	sb.WriteString(Divider)
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(Divider)
	return sb.String()
}
