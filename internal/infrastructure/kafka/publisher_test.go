package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	segkafka "github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ops/internal/application/ports"
	"github.com/jhoicas/warehouse-ops/internal/infrastructure/kafka"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []segkafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...segkafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublisher_PublicaEvento(t *testing.T) {
	w := &fakeWriter{}
	p := kafka.NewPublisherWithWriter(w, kafka.Config{Topic: "audit"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	err := p.Notify(ctx, ports.Event{
		Type:     ports.EventShipmentShipped,
		Entity:   "shipment",
		EntityID: "sh-1",
		Message:  "envío despachado",
	})
	require.NoError(t, err)
	cancel()
	require.NoError(t, p.Close())

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "sh-1", string(msg.Key))
	var got ports.Event
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, ports.EventShipmentShipped, got.Type)
	assert.False(t, got.OccurredAt.IsZero())
	assert.Equal(t, "ce-type", msg.Headers[0].Key)
	assert.Equal(t, ports.EventShipmentShipped, string(msg.Headers[0].Value))
	assert.True(t, w.closed)
}

func TestPublisher_AbreCircuitoTrasFallos(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker caído")}
	p := kafka.NewPublisherWithWriter(w, kafka.Config{Topic: "audit", FailureThreshold: 2}, nil)

	for i := 0; i < 2; i++ {
		require.NoError(t, p.Notify(context.Background(), ports.Event{Type: "x", EntityID: "e"}))
	}
	require.NoError(t, p.Close())
	assert.Equal(t, gobreaker.StateOpen, p.State())
}

func TestPublisher_CloseConNotifyConcurrente(t *testing.T) {
	w := &fakeWriter{}
	p := kafka.NewPublisherWithWriter(w, kafka.Config{Topic: "audit"}, nil)

	const n = 100
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := p.Notify(context.Background(), ports.Event{Type: "x", EntityID: "e"})
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, kafka.ErrClosed)
		}()
	}
	require.NoError(t, p.Close())
	wg.Wait()

	assert.ErrorIs(t, p.Notify(context.Background(), ports.Event{Type: "x"}), kafka.ErrClosed)
	require.NoError(t, p.Close(), "cerrar dos veces no falla")

	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Len(t, w.msgs, accepted, "todo evento aceptado antes del cierre se escribe")
	assert.True(t, w.closed)
}

func TestNewPublisher_Validacion(t *testing.T) {
	_, err := kafka.NewPublisher(kafka.Config{Topic: "audit"}, nil)
	assert.Error(t, err)
	_, err = kafka.NewPublisher(kafka.Config{Brokers: []string{"localhost:9092"}}, nil)
	assert.Error(t, err)
}
