package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/beefboard/boardclient/internal/client/client"
	"github.com/beefboard/boardclient/internal/client/config"
	"github.com/beefboard/boardclient/internal/logging"
)

// observability owns the metrics endpoint and the trace exporter.
type observability struct {
	registry *prometheus.Registry
	metrics  *client.Metrics
	server   *http.Server
	addr     string
	shutdown func(context.Context) error
}

func startObservability(c *config.Config, traceOut io.Writer, log logging.Logger) (*observability, error) {
	reg := prometheus.NewRegistry()
	o := &observability{registry: reg, metrics: client.NewMetrics(reg)}

	if c.TraceStdout {
		shutdown, err := client.InitTracing(traceOut)
		if err != nil {
			return nil, err
		}
		o.shutdown = shutdown
	}

	if c.MetricsAddr != "" {
		ln, err := net.Listen("tcp", c.MetricsAddr)
		if err != nil {
			_ = o.Close(context.Background())
			return nil, fmt.Errorf("failed to listen for metrics on %s: %w", c.MetricsAddr, err)
		}
		o.server = &http.Server{Handler: metricsRouter(reg), ReadHeaderTimeout: 5 * time.Second}
		o.addr = ln.Addr().String()

		go func() {
			if err := o.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error(context.Background(), "metrics server stopped", "error", err)
			}
		}()
		log.Info(context.Background(), "serving metrics", "addr", o.addr)
	}
	return o, nil
}

func metricsRouter(reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return r
}

// Close stops the metrics server and flushes pending spans.
func (o *observability) Close(ctx context.Context) error {
	var errs []error
	if o.server != nil {
		errs = append(errs, o.server.Shutdown(ctx))
	}
	if o.shutdown != nil {
		errs = append(errs, o.shutdown(ctx))
	}
	return errors.Join(errs...)
}
