// Package notify implementa los sumideros de eventos de negocio.
package notify

import (
	"context"
	"errors"
	"strconv"

	"github.com/jhoicas/warehouse-ops/internal/application/ports"
	"github.com/jhoicas/warehouse-ops/pkg/logger"
	"github.com/jhoicas/warehouse-ops/pkg/metrics"
)

// LogNotifier escribe cada evento como una línea estructurada de zerolog.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier crea el sumidero de log.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.Nop()
	}
	return &LogNotifier{log: log.Named("events")}
}

// Notify implementa ports.Notifier.
func (n *LogNotifier) Notify(_ context.Context, e ports.Event) error {
	ev := n.log.Info().
		Str("type", e.Type).
		Str("entity", e.Entity).
		Str("entity_id", e.EntityID).
		Time("occurred_at", e.OccurredAt)
	for k, v := range e.Attributes {
		ev = ev.Str(k, v)
	}
	ev.Msg(e.Message)
	return nil
}

// MetricsNotifier cuenta los eventos por tipo en Prometheus.
type MetricsNotifier struct {
	m *metrics.Metrics
}

// NewMetricsNotifier crea el sumidero de métricas.
func NewMetricsNotifier(m *metrics.Metrics) *MetricsNotifier {
	return &MetricsNotifier{m: m}
}

// Notify implementa ports.Notifier.
func (n *MetricsNotifier) Notify(_ context.Context, e ports.Event) error {
	n.m.RecordEvent(e.Type)
	if e.Type == ports.EventReceivingCommit {
		if units, err := strconv.Atoi(e.Attributes["units"]); err == nil {
			n.m.RecordReceivedUnits(units)
		}
	}
	return nil
}

// Fanout reparte cada evento a todos los sumideros; un fallo no impide la entrega al resto.
type Fanout struct {
	sinks   []ports.Notifier
	metrics *metrics.Metrics
}

// NewFanout crea el repartidor. Los sumideros nil se ignoran.
func NewFanout(m *metrics.Metrics, sinks ...ports.Notifier) *Fanout {
	f := &Fanout{metrics: m}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

// Notify implementa ports.Notifier; devuelve los errores de todos los sumideros unidos.
func (f *Fanout) Notify(ctx context.Context, e ports.Event) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Notify(ctx, e); err != nil {
			errs = append(errs, err)
			if f.metrics != nil {
				f.metrics.RecordNotifyFailure(e.Type)
			}
		}
	}
	return errors.Join(errs...)
}
