package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDisabledIsNoop(t *testing.T) {
	tel, err := New(context.Background(), Config{Enabled: false})
	require.NoError(t, err)
	assert.False(t, tel.IsEnabled())

	_, span := tel.Tracer().Start(context.Background(), "bfhl.lcm")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestNewDebugWritesSpans(t *testing.T) {
	var buf bytes.Buffer
	tel, err := New(context.Background(), Config{
		Enabled:     true,
		Debug:       true,
		ServiceName: "bfhl-test",
		Environment: "test",
		TraceWriter: &buf,
	})
	require.NoError(t, err)
	require.True(t, tel.IsEnabled())

	_, span := tel.Tracer().Start(context.Background(), "bfhl.fibonacci")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, tel.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "bfhl.fibonacci")
	assert.Contains(t, buf.String(), "bfhl-test")
}
