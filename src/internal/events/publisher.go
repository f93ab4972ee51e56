package events

import (
	"encoding/json"
	"fmt"
	"time"

	"campus-attendance-svc/src/internal/config"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// Publisher notifies subscribers about session lifecycle and accepted
// check-ins. Publishing is fire-and-forget from the caller's point of view: a
// broker outage must never fail the operation that triggered the event.
type Publisher interface {
	SessionCreated(event SessionEvent)
	SessionEnded(event SessionEvent)
	CheckInAccepted(event CheckInEvent)
}

type publisher struct {
	channel *amqp.Channel
	cfg     *config.RabbitMQConfig
}

func NewPublisher(channel *amqp.Channel, cfg *config.Configuration) Publisher {
	return &publisher{
		channel: channel,
		cfg:     &cfg.Queue.RabbitMQ,
	}
}

func (p *publisher) SessionCreated(event SessionEvent) {
	event.EventID = uuid.New().String()
	event.Timestamp = time.Now()
	p.publish(KeySessionCreated, event.EventID, event)
}

func (p *publisher) SessionEnded(event SessionEvent) {
	event.EventID = uuid.New().String()
	event.Timestamp = time.Now()
	p.publish(KeySessionEnded, event.EventID, event)
}

func (p *publisher) CheckInAccepted(event CheckInEvent) {
	event.EventID = uuid.New().String()
	event.Timestamp = time.Now()
	p.publish(KeyCheckIn, event.EventID, event)
}

func (p *publisher) publish(kind, eventID string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).WithField("kind", kind).Error("Failed to marshal event")
		return
	}

	routingKey := fmt.Sprintf("%s.%s", p.cfg.RoutingKey, kind)

	err = p.channel.Publish(
		p.cfg.Exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)

	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"kind":        kind,
			"exchange":    p.cfg.Exchange,
			"routing_key": routingKey,
		}).Error("Failed to publish event")
		return
	}

	logrus.WithFields(logrus.Fields{
		"kind":        kind,
		"event_id":    eventID,
		"routing_key": routingKey,
	}).Debug("Event published")
}

type noopPublisher struct{}

// NewNoopPublisher is used when the queue is disabled in configuration.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) SessionCreated(SessionEvent)  {}
func (noopPublisher) SessionEnded(SessionEvent)    {}
func (noopPublisher) CheckInAccepted(CheckInEvent) {}
