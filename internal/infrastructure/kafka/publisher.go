// Package kafka publica los eventos de auditoría del negocio en un tópico de Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"

	"github.com/jhoicas/warehouse-ops/internal/application/ports"
	"github.com/jhoicas/warehouse-ops/pkg/logger"
)

// Config del publicador.
type Config struct {
	Brokers          []string
	Topic            string
	Source           string        // valor del header ce-source
	Timeout          time.Duration // por mensaje; 0 = 5s
	FailureThreshold uint32        // fallos consecutivos para abrir el circuito; 0 = 5
	OpenTimeout      time.Duration // tiempo en abierto antes de semiabrir; 0 = 30s
}

// MessageWriter es la parte de kafka.Writer que usa el publicador.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ ports.Notifier = (*Publisher)(nil)

// Publisher implementa ports.Notifier. Cada evento se escribe en una goroutine con su propio
// timeout detrás de un circuit breaker; Notify nunca bloquea al caso de uso.
type Publisher struct {
	writer  MessageWriter
	breaker *gobreaker.CircuitBreaker
	cfg     Config
	log     *logger.Logger

	mu     sync.Mutex // protege closed y el wg.Add frente a Close
	closed bool
	wg     sync.WaitGroup
}

// ErrClosed se devuelve al notificar sobre un publicador ya cerrado.
var ErrClosed = errors.New("kafka: publicador cerrado")

// NewPublisher crea un publicador con un kafka.Writer sobre los brokers configurados.
func NewPublisher(cfg Config, log *logger.Logger) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: brokers requeridos")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka: tópico requerido")
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return NewPublisherWithWriter(writer, cfg, log), nil
}

// NewPublisherWithWriter permite inyectar el writer (tests).
func NewPublisherWithWriter(w MessageWriter, cfg Config, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.Source == "" {
		cfg.Source = "warehouse-ops"
	}
	log = log.Named("kafka")
	threshold := cfg.FailureThreshold
	settings := gobreaker.Settings{
		Name:        "kafka:" + cfg.Topic,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("cambio de estado del circuit breaker")
		},
	}
	return &Publisher{
		writer:  w,
		breaker: gobreaker.NewCircuitBreaker(settings),
		cfg:     cfg,
		log:     log,
	}
}

// Notify serializa el evento y lo publica en segundo plano.
func (p *Publisher) Notify(ctx context.Context, event ports.Event) error {
	msg, err := p.message(event)
	if err != nil {
		return err
	}
	// El envío no depende de la cancelación del request que originó el evento.
	base := context.WithoutCancel(ctx)
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.wg.Add(1)
	p.mu.Unlock()
	go func() {
		defer p.wg.Done()
		if err := p.publish(base, msg); err != nil {
			p.log.Warn().Err(err).Str("type", event.Type).Str("entity_id", event.EntityID).
				Msg("no se pudo publicar el evento")
		}
	}()
	return nil
}

func (p *Publisher) publish(ctx context.Context, msg kafka.Message) error {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()
	_, err := p.breaker.Execute(func() (interface{}, error) {
		return nil, p.writer.WriteMessages(ctx, msg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("kafka: circuito abierto para %s: %w", p.cfg.Topic, err)
	}
	if err != nil {
		return fmt.Errorf("kafka: publicar en %s: %w", p.cfg.Topic, err)
	}
	return nil
}

func (p *Publisher) message(event ports.Event) (kafka.Message, error) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: serializar evento: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.EntityID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "ce-type", Value: []byte(event.Type)},
			{Key: "ce-source", Value: []byte(p.cfg.Source)},
			{Key: "ce-subject", Value: []byte(event.Entity)},
			{Key: "ce-time", Value: []byte(event.OccurredAt.Format(time.RFC3339))},
			{Key: "content-type", Value: []byte("application/json")},
		},
		Time: event.OccurredAt,
	}, nil
}

// State devuelve el estado del circuit breaker.
func (p *Publisher) State() gobreaker.State {
	return p.breaker.State()
}

// Close rechaza nuevos eventos, espera los envíos pendientes y cierra el writer. Es idempotente.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()
	p.wg.Wait()
	return p.writer.Close()
}
