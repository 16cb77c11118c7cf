package audit

import (
	"strings"

	"github.com/rs/zerolog"
)

// Logger provides structured audit logging for auth business events.
// It is wired into the service as the audit callback.
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// Record logs one business event with its fields. Email-like fields are
// masked before they hit the log stream.
func (l *Logger) Record(action string, fields map[string]string) {
	evt := l.log.Info().Str("action", action)
	for k, v := range fields {
		if strings.Contains(k, "email") {
			v = maskEmail(v)
		}
		evt = evt.Str(k, v)
	}
	evt.Msg("audit")
}

// maskEmail keeps the first character of the local part and the domain.
func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return email
	}
	return email[:1] + "***" + email[at:]
}
