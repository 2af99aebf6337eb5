// Package events publishes lead notifications for downstream follow-up.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"collegedir/models"
)

type Publisher interface {
	LeadCaptured(ctx context.Context, lead *models.Lead) error
	Close() error
}

// LeadEvent is the message body published for every stored lead.
type LeadEvent struct {
	Type      string            `json:"type"`
	LeadID    string            `json:"lead_id"`
	Form      string            `json:"form"`
	Submitter string            `json:"submitter"`
	Fields    map[string]string `json:"fields"`
	CreatedAt time.Time         `json:"created_at"`
}

func RoutingKey(form string) string {
	return "lead." + form
}

func NewLeadEvent(lead *models.Lead) LeadEvent {
	return LeadEvent{
		Type:      RoutingKey(lead.Form),
		LeadID:    lead.ID.Hex(),
		Form:      lead.Form,
		Submitter: lead.Submitter,
		Fields:    lead.Fields,
		CreatedAt: lead.CreatedAt,
	}
}

type Noop struct{}

func (Noop) LeadCaptured(context.Context, *models.Lead) error { return nil }
func (Noop) Close() error                                       { return nil }

// ErrNotConnected is returned while the publisher waits to redial.
var ErrNotConnected = errors.New("amqp: not connected")

const (
	dialTimeout   = 5 * time.Second
	redialBackoff = 10 * time.Second
)

// AMQPPublisher sends lead events to a durable topic exchange. When the
// broker drops the connection, the next publish redials, at most once per
// redialBackoff.
type AMQPPublisher struct {
	url      string
	exchange string
	backoff  time.Duration

	mu          sync.Mutex // guards everything below; channels are not safe for concurrent publishes
	conn        *amqp.Connection
	channel     *amqp.Channel
	lastAttempt time.Time
}

func NewAMQPPublisher(amqpURL, exchange string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{url: amqpURL, exchange: exchange, backoff: redialBackoff}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *AMQPPublisher) connect() error {
	p.lastAttempt = time.Now()
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}
	err = ch.ExchangeDeclare(
		p.exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}
	p.conn, p.channel = conn, ch
	return nil
}

// ensureChannel reopens the connection after the broker closed it.
// Callers hold p.mu.
func (p *AMQPPublisher) ensureChannel() error {
	if p.conn != nil && !p.conn.IsClosed() && p.channel != nil && !p.channel.IsClosed() {
		return nil
	}
	if time.Since(p.lastAttempt) < p.backoff {
		return ErrNotConnected
	}
	p.closeLocked()
	if err := p.connect(); err != nil {
		return fmt.Errorf("redial: %w", err)
	}
	log.Info().Str("exchange", p.exchange).Msg("reconnected to rabbitmq")
	return nil
}

func (p *AMQPPublisher) LeadCaptured(ctx context.Context, lead *models.Lead) error {
	body, err := json.Marshal(NewLeadEvent(lead))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ensureChannel(); err != nil {
		return err
	}
	return p.channel.PublishWithContext(ctx,
		p.exchange,
		RoutingKey(lead.Form),
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    lead.ID.Hex(),
			Timestamp:    lead.CreatedAt,
			Body:         body,
		},
	)
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeLocked()
}

func (p *AMQPPublisher) closeLocked() error {
	var err error
	if p.channel != nil {
		_ = p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		if !p.conn.IsClosed() {
			err = p.conn.Close()
		}
		p.conn = nil
	}
	return err
}
