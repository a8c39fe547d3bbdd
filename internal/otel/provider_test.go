package otel

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/OCAP2/autodrive/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Disabled(t *testing.T) {
	p, err := New(Config{})
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.Nil(t, p.LoggerProvider())
	assert.NoError(t, p.Flush(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNew_EnabledWithoutExporter(t *testing.T) {
	_, err := New(Config{Enabled: true, ServiceName: "autodrive"})
	assert.ErrorIs(t, err, ErrNoExporter)
}

func TestNew_FileExporterReceivesSlogRecords(t *testing.T) {
	var out bytes.Buffer
	p, err := New(Config{Enabled: true, ServiceName: "autodrive", LogWriter: &out})
	require.NoError(t, err)
	require.True(t, p.Enabled())

	m := logging.NewSlogManager()
	var console bytes.Buffer
	m.Setup(&console, "info", p.LoggerProvider())
	m.Logger().Info("Autodrive finished", slog.Int("turn", 42))

	require.NoError(t, p.Flush(context.Background()))
	assert.Contains(t, out.String(), "Autodrive finished")
	assert.Contains(t, out.String(), "autodrive")
	require.NoError(t, p.Shutdown(context.Background()))
}
