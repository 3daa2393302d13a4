package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/ludo-technologies/schemascan/internal/config"
)

func TestSetup_NoneKeepsNoopProvider(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown, err := Setup(context.Background(), &config.TracingConfig{Exporter: config.TraceExporterNone}, nil)
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
	assert.Equal(t, before, otel.GetTracerProvider())

	shutdown, err = Setup(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_StdoutExportsSpans(t *testing.T) {
	var out bytes.Buffer
	shutdown, err := Setup(context.Background(), &config.TracingConfig{Exporter: config.TraceExporterStdout}, &out)
	require.NoError(t, err)

	_, span := otel.Tracer("schemascan-test").Start(context.Background(), "audit")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, out.String(), `"Name": "audit"`)
	assert.Contains(t, out.String(), "schemascan")
}

func TestSetup_UnknownExporter(t *testing.T) {
	shutdown, err := Setup(context.Background(), &config.TracingConfig{Exporter: "zipkin"}, nil)
	require.Error(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
