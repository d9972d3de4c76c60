package observe

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitProvider installs a global MeterProvider backed by a Prometheus
// exporter on a private registry. It returns the instruments, the /metrics
// handler and the provider so main can shut it down.
func InitProvider() (*Metrics, http.Handler, *sdkmetric.MeterProvider, error) {
	registry := prometheus.NewRegistry()

	exp, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, nil, nil, err
	}

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
	otel.SetMeterProvider(mp)

	met, err := NewMetrics(mp)
	if err != nil {
		return nil, nil, nil, err
	}
	return met, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), mp, nil
}
