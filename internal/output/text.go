package output

import (
	"io"

	"github.com/animus-cli/animus/internal/domain"
)

// EventWriter writes event records as styled text lines
type EventWriter struct {
	w io.Writer
}

// NewEventWriter creates an event text writer
func NewEventWriter(w io.Writer) *EventWriter {
	return &EventWriter{w: w}
}

// Write outputs a single record as one styled line
func (w *EventWriter) Write(rec *domain.EventRecord) error {
	timestamp := Render(Styles.Timestamp, rec.TimeCreated.Format("2006-01-02 15:04:05"))
	provider := Render(Styles.Provider, "["+rec.ProviderName+"]")

	line := timestamp + " " + LevelIndicator(rec.Level) + " " + provider + " "
	line += Render(Styles.Label, string(rec.LogName)) + "/"
	line += Render(Styles.Value, itoa(rec.EventID)) + ": "
	line += Render(LevelStyle(rec.Level), firstLine(rec.Message)) + "\n"

	_, err := io.WriteString(w.w, line)
	return err
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}

	var buf [20]byte
	pos := len(buf)
	negative := i < 0
	if negative {
		i = -i
	}

	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}

	if negative {
		pos--
		buf[pos] = '-'
	}

	return string(buf[pos:])
}
