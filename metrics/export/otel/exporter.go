// Package otel bridges lifecycle metrics into an OpenTelemetry meter via
// asynchronous instruments. Every observation cycle reads one snapshot, so
// counters and histogram buckets are mutually consistent.
package otel

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/metric"

	sessionauth "github.com/prepwise/sessionauth"
	"github.com/prepwise/sessionauth/metrics/export/internaldefs"
)

// metricsSource is what the exporter needs from the manager. Satisfied by
// *sessionauth.Manager.
type metricsSource interface {
	MetricsSnapshot() sessionauth.MetricsSnapshot
	AuditDropped() uint64
}

// Exporter owns the registered instruments. Close unregisters the callback.
type Exporter struct {
	registration metric.Registration
}

// NewOTelExporter registers instruments for a manager's metrics.
func NewOTelExporter(meter metric.Meter, m *sessionauth.Manager) (*Exporter, error) {
	if m == nil {
		return nil, errors.New("otel exporter: nil manager")
	}
	return NewOTelExporterFromSource(meter, m)
}

// NewOTelExporterFromSource registers instruments for any snapshot source.
func NewOTelExporterFromSource(meter metric.Meter, src metricsSource) (*Exporter, error) {
	if src == nil {
		return nil, errors.New("otel exporter: nil source")
	}
	counters := make(map[sessionauth.MetricID]metric.Int64ObservableCounter, len(internaldefs.CounterDefs))
	observables := make([]metric.Observable, 0, len(internaldefs.CounterDefs)+len(internaldefs.HistogramDefs)*10+1)

	for _, def := range internaldefs.CounterDefs {
		c, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, errors.Wrapf(err, "otel exporter: counter %s", def.Name)
		}
		counters[def.ID] = c
		observables = append(observables, c)
	}

	// Bucket counts surface as per-bound gauges. The meter cannot replay
	// pre-aggregated histogram buckets through its histogram instrument,
	// so each cumulative bucket becomes its own series.
	type histSet struct {
		id      sessionauth.MetricID
		buckets []metric.Int64ObservableGauge
		count   metric.Int64ObservableCounter
	}
	hists := make([]histSet, 0, len(internaldefs.HistogramDefs))

	for _, def := range internaldefs.HistogramDefs {
		hs := histSet{id: def.ID}
		for _, suffix := range internaldefs.HistogramBoundSuffix {
			g, err := meter.Int64ObservableGauge(
				def.Name+"_bucket_le_"+suffix,
				metric.WithDescription(def.Help),
			)
			if err != nil {
				return nil, errors.Wrapf(err, "otel exporter: histogram %s", def.Name)
			}
			hs.buckets = append(hs.buckets, g)
			observables = append(observables, g)
		}

		c, err := meter.Int64ObservableCounter(def.Name+"_count", metric.WithDescription(def.Help))
		if err != nil {
			return nil, errors.Wrapf(err, "otel exporter: histogram count %s", def.Name)
		}
		hs.count = c
		observables = append(observables, c)
		hists = append(hists, hs)
	}

	auditDropped, err := meter.Int64ObservableCounter(
		"sessionauth_audit_dropped_total",
		metric.WithDescription("Audit events dropped because the dispatch buffer was full."),
	)
	if err != nil {
		return nil, errors.Wrap(err, "otel exporter: audit dropped counter")
	}
	observables = append(observables, auditDropped)

	registration, err := meter.RegisterCallback(func(_ context.Context, obs metric.Observer) error {
		snap := src.MetricsSnapshot()

		for id, instrument := range counters {
			obs.ObserveInt64(instrument, int64(snap.Counters[id]))
		}

		for _, hs := range hists {
			raw, ok := snap.Histograms[hs.id]
			if !ok {
				continue
			}
			cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))
			for i, g := range hs.buckets {
				obs.ObserveInt64(g, int64(cumulative[i]))
			}
			obs.ObserveInt64(hs.count, int64(cumulative[len(cumulative)-1]))
		}

		obs.ObserveInt64(auditDropped, int64(src.AuditDropped()))
		return nil
	}, observables...)
	if err != nil {
		return nil, errors.Wrap(err, "otel exporter: register callback")
	}

	return &Exporter{registration: registration}, nil
}

// Close stops future observation cycles.
func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
