package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/BeingRelentless/QKart-Shopping/internal/config"
	"github.com/BeingRelentless/QKart-Shopping/internal/pkg/logger"
)

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(&config.Config{}, logger.Discard())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"}, otel.GetTextMapPropagator().Fields())
}

func TestInit_Enabled(t *testing.T) {
	cfg := &config.Config{
		App:     config.AppConfig{Name: "QKart Storefront", Version: "test", Environment: "test"},
		Tracing: config.TracingConfig{Enabled: true, JaegerEndpoint: "http://127.0.0.1:1/api/traces", SampleRatio: 1},
	}

	shutdown, err := Init(cfg, logger.Discard())
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	// The collector is unreachable; shutdown reports the failed flush or nothing.
	_ = shutdown(context.Background())
}
