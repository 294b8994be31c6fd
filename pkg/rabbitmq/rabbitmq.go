package rabbitmq

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/novellea/novellea-api/pkg/global"
	"github.com/novellea/novellea-api/pkg/orders"
)

// RabbitMQ publishes order lifecycle events for downstream services
// (notifications, fulfillment dashboards). Undeliverable messages land on a
// dead letter queue.
type RabbitMQ struct {
	Conn     *amqp.Connection
	Channel  *amqp.Channel
	exchange string
	queue    string
	dlq      string
}

func NewRabbitMQ() (*RabbitMQ, error) {
	conn, err := amqp.Dial(global.GetRabbitMQURL())
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &RabbitMQ{
		Conn:     conn,
		Channel:  ch,
		exchange: global.GetEnvOrDefault("ORDER_EXCHANGE", "orders_exchange"),
		queue:    global.GetEnvOrDefault("ORDER_QUEUE", "orders_queue"),
		dlq:      global.GetEnvOrDefault("DEAD_LETTER_QUEUE", "orders_dead_letter"),
	}, nil
}

// SetupTopology declares the order exchange, the main queue with dead
// lettering, and the DLQ itself. Declarations are idempotent.
func (r *RabbitMQ) SetupTopology() error {
	if err := r.Channel.ExchangeDeclare(
		r.exchange,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return err
	}

	if err := r.Channel.ExchangeDeclare(
		r.dlq+"_exchange",
		"direct",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return err
	}

	if _, err := r.Channel.QueueDeclare(
		r.dlq,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return err
	}

	if err := r.Channel.QueueBind(r.dlq, r.dlq, r.dlq+"_exchange", false, nil); err != nil {
		return err
	}

	if _, err := r.Channel.QueueDeclare(
		r.queue,
		true,
		false,
		false,
		false,
		amqp.Table{
			"x-dead-letter-exchange":    r.dlq + "_exchange",
			"x-dead-letter-routing-key": r.dlq,
		},
	); err != nil {
		return err
	}

	return r.Channel.QueueBind(r.queue, "", r.exchange, false, nil)
}

// PublishOrderEvent sends one JSON-encoded lifecycle event to the order
// exchange.
func (r *RabbitMQ) PublishOrderEvent(ctx context.Context, event orders.OrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return r.Channel.PublishWithContext(ctx,
		r.exchange,
		"",
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			ContentType:  "application/json",
			MessageId:    event.EventID,
			Body:         body,
		},
	)
}

func (r *RabbitMQ) Close() {
	if r.Channel != nil {
		r.Channel.Close()
	}
	if r.Conn != nil {
		r.Conn.Close()
	}
}
