package metrics_test

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"domainctl/pkg/metrics"
)

func TestMeterProviderExportsToPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	mp, err := metrics.NewMeterProvider(reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	meter := mp.Meter("test")
	checks := metrics.Counter(meter, "checks_total", "checks")
	latency := metrics.Histogram(meter, "lookup_seconds", "lookup latency")

	checks.Add(context.Background(), 2, metric.WithAttributes(attribute.String(metrics.AttrOutcome, "failed")))
	latency.Record(context.Background(), 0.02)

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	require.True(t, hasPrefix(names, "domainctl_checks"), "got %v", names)
	require.True(t, hasPrefix(names, "domainctl_lookup"), "got %v", names)
}

func hasPrefix(names []string, prefix string) bool {
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			return true
		}
	}

	return false
}
