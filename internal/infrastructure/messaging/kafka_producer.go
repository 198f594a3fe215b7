// Package messaging implementa el puerto inventory.EventPublisher sobre Kafka.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
)

var _ inventory.EventPublisher = (*KafkaPublisher)(nil)

// KafkaPublisher publica los eventos del ledger en un topic de Kafka para
// consumidores externos (reportes, sincronización con otros sistemas).
type KafkaPublisher struct {
	writer *kafka.Writer
	log    zerolog.Logger
}

// NewKafkaPublisher construye el publicador.
func NewKafkaPublisher(brokers []string, topic string, log zerolog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaPublisher{writer: writer, log: log}
}

// PublishMovementEvent serializa el evento como JSON y lo escribe en Kafka.
// La clave es el product_id para preservar el orden por producto.
func (p *KafkaPublisher) PublishMovementEvent(ctx context.Context, event inventory.MovementEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serializar evento de movimiento: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.ProductID),
		Value: payload,
		Time:  event.At,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Action)},
		},
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publicar evento en kafka: %w", err)
	}
	return nil
}

// Close cierra el writer subyacente.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var _ inventory.EventPublisher = (*NoopPublisher)(nil)

// NoopPublisher descarta los eventos. Se usa cuando KAFKA_BROKERS está vacío.
type NoopPublisher struct{}

// NewNoopPublisher construye el publicador nulo.
func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

// PublishMovementEvent descarta el evento.
func (p *NoopPublisher) PublishMovementEvent(context.Context, inventory.MovementEvent) error {
	return nil
}
