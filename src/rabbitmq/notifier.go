package rabbitmq

import (
	"encoding/json"
	"log/slog"

	"github.com/streadway/amqp"
)

// envelope wraps every published event with its name so dashboard consumers
// can route on it.
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Notifier publishes realtime events to a fanout exchange for the dashboard.
// Publication is fire-and-forget: a broker failure is logged and never
// surfaces to the decision path.
type Notifier struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewNotifier connects to RabbitMQ and declares the fanout exchange.
func NewNotifier(amqpURL, exchange string) (*Notifier, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	err = ch.ExchangeDeclare(
		exchange,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Notifier{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish sends one named event. Errors are logged and swallowed; no
// connected listener is not a failure.
func (n *Notifier) Publish(event string, payload any) {
	body, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		slog.Warn("Failed to marshal event", "event", event, "error", err)
		return
	}

	err = n.channel.Publish(
		n.exchange,
		"",
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		slog.Warn("Failed to publish event", "event", event, "error", err)
	}
}

// Close closes the RabbitMQ connection and channel.
func (n *Notifier) Close() {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		n.conn.Close()
	}
}
