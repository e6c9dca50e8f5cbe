package telemetry

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Collector exports the latest frame of a running system as Prometheus
// metrics. It implements dynamo.Observer.
type Collector struct {
	registry   *prometheus.Registry
	ticks      prometheus.Counter
	simTime    prometheus.Gauge
	position   *prometheus.GaugeVec
	velocity   *prometheus.GaugeVec
	mass       *prometheus.GaugeVec
	separation *prometheus.GaugeVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orbitsim_ticks_total",
			Help: "Number of simulation ticks observed",
		}),
		simTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orbitsim_sim_time_seconds",
			Help: "Simulated time of the latest frame",
		}),
		position: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "orbitsim_body_position",
				Help: "Body position in field units",
			},
			[]string{"body", "axis"},
		),
		velocity: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "orbitsim_body_velocity",
				Help: "Body velocity in field units per second",
			},
			[]string{"body", "axis"},
		),
		mass: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "orbitsim_body_mass",
				Help: "Body mass",
			},
			[]string{"body"},
		),
		separation: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "orbitsim_separation",
				Help: "Distance between an orbiter and the anchor",
			},
			[]string{"body"},
		),
	}

	c.registry.MustRegister(c.ticks, c.simTime, c.position, c.velocity, c.mass, c.separation)
	return c
}

func (c *Collector) OnTick(f dynamo.Frame) {
	c.ticks.Inc()
	c.simTime.Set(f.Time)
	if len(f.Bodies) == 0 {
		return
	}

	anchor := f.Bodies[0]
	for i, b := range f.Bodies {
		c.position.WithLabelValues(b.Name, "x").Set(b.X)
		c.position.WithLabelValues(b.Name, "y").Set(b.Y)
		c.velocity.WithLabelValues(b.Name, "x").Set(b.VX)
		c.velocity.WithLabelValues(b.Name, "y").Set(b.VY)
		c.mass.WithLabelValues(b.Name).Set(b.Mass)
		if i > 0 {
			c.separation.WithLabelValues(b.Name).Set(math.Hypot(b.X-anchor.X, b.Y-anchor.Y))
		}
	}
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("metrics listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
