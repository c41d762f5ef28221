package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w at level, with timestamps such as
// "14:32:01.45".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// commandLogger tags l with the running subcommand.
func commandLogger(l *log.Logger, command string) *log.Logger {
	if command == "" || command == appName {
		return l
	}
	return l.With("cmd", command)
}

// progress times one store or render step and logs it at debug level.
type progress struct {
	logger *log.Logger
	now    func() time.Time
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, now: time.Now, start: time.Now()}
}

// done logs msg with keyvals and the elapsed time, e.g.
// "saved layout id=... tables=3 elapsed=12ms".
func (p *progress) done(msg string, keyvals ...any) {
	elapsed := p.now().Sub(p.start).Round(time.Millisecond)
	p.logger.Debug(msg, append(keyvals, "elapsed", elapsed)...)
}

type ctxKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the command logger, or log.Default() when the
// context carries none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
