package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// ServiceName identifies this program's records in OTel.
const ServiceName = "autodrive"

// SlogManager owns the slog logger of a run: console or file output plus an
// optional OTel bridge. Records carry the active session id and turn.
type SlogManager struct {
	logger      *slog.Logger
	logProvider *sdklog.LoggerProvider

	mu        sync.RWMutex
	sessionID string
	turn      uint
}

// NewSlogManager creates a manager; Logger returns slog.Default until Setup.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// Setup builds the logger. Records go to file when it is set and to stdout
// otherwise; provider adds the OTel bridge when non-nil.
func (m *SlogManager) Setup(file io.Writer, level string, provider *sdklog.LoggerProvider) {
	m.logProvider = provider

	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var out io.Writer = os.Stdout
	if file != nil {
		out = file
	}
	var otelHandler slog.Handler
	if provider != nil {
		otelHandler = otelslog.NewHandler(ServiceName, otelslog.WithLoggerProvider(provider))
	}

	m.logger = slog.New(sessionHandler{
		inner: newFanout(slog.NewTextHandler(out, opts), otelHandler),
		attrs: m.sessionAttrs,
	})
	m.logger.Info("Logging initialized", "level", level, "otel", provider != nil)
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// SetSession tags subsequent records with a session id; an empty id clears it.
func (m *SlogManager) SetSession(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionID, m.turn = id, 0
}

// SetTurn tags subsequent records with the current turn.
func (m *SlogManager) SetTurn(turn uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turn = turn
}

func (m *SlogManager) sessionAttrs() []slog.Attr {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.sessionID == "" {
		return nil
	}
	return []slog.Attr{slog.String("sessionId", m.sessionID), slog.Uint64("simTurn", uint64(m.turn))}
}

// Flush forces a flush of OTel logs if available.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider != nil {
		return m.logProvider.ForceFlush(ctx)
	}
	return nil
}
