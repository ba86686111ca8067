package client

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/pesio-ai/be-contracts/internal/repository"
)

// DefaultSubjectPrefix is prepended to every event type.
const DefaultSubjectPrefix = "contracts.lifecycle"

// Publisher is the part of *nats.Conn the notification publisher needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NotificationPublisher publishes contract lifecycle events to NATS.
//
// Subject convention: <prefix>.<event_type>
// Event types: contract_created, contract_approved, contract_sent,
// contract_signed, contract_locked, contract_revoked
//
// Publishing is non-fatal: errors are logged and never reach the caller, so a
// broker outage never blocks a status change.
type NotificationPublisher struct {
	conn   Publisher
	prefix string
	log    zerolog.Logger
	now    func() time.Time
}

// ContractEvent is the JSON schema published to NATS.
type ContractEvent struct {
	EventType     string    `json:"event_type"`
	ContractID    string    `json:"contract_id"`
	ContractName  string    `json:"contract_name"`
	BlueprintID   string    `json:"blueprint_id"`
	BlueprintName string    `json:"blueprint_name,omitempty"`
	Status        string    `json:"status"`
	Locked        bool      `json:"locked"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewNotificationPublisher creates a publisher. A nil conn, including a nil
// *nats.Conn, makes every publish a no-op.
func NewNotificationPublisher(conn Publisher, subjectPrefix string, log zerolog.Logger) *NotificationPublisher {
	if isNilPublisher(conn) {
		conn = nil
	}
	if subjectPrefix == "" {
		subjectPrefix = DefaultSubjectPrefix
	}
	return &NotificationPublisher{
		conn:   conn,
		prefix: subjectPrefix,
		log:    log,
		now:    time.Now,
	}
}

func isNilPublisher(conn Publisher) bool {
	if conn == nil {
		return true
	}
	v := reflect.ValueOf(conn)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Func, reflect.Chan, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// ConnectNATS dials the broker with reconnects enabled.
func ConnectNATS(url, clientName string, log zerolog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(clientName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	return nc, nil
}

// Subject returns the subject an event type is published on.
func (p *NotificationPublisher) Subject(eventType string) string {
	return p.prefix + "." + eventType
}

// PublishContractEvent publishes a contract event.
func (p *NotificationPublisher) PublishContractEvent(ctx context.Context, eventType string, contract *repository.Contract) {
	if p == nil || p.conn == nil || contract == nil {
		return
	}
	if err := ctx.Err(); err != nil {
		p.log.Warn().Err(err).Str("event_type", eventType).Msg("notification: context done, event dropped")
		return
	}

	event := &ContractEvent{
		EventType:     eventType,
		ContractID:    contract.ID,
		ContractName:  contract.Name,
		BlueprintID:   contract.BlueprintID,
		BlueprintName: contract.BlueprintName,
		Status:        contract.Status.String(),
		Locked:        contract.Locked(),
		OccurredAt:    p.now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.log.Warn().Err(err).Str("event_type", eventType).Msg("notification: failed to marshal event")
		return
	}

	subject := p.Subject(eventType)
	if err := p.conn.Publish(subject, data); err != nil {
		p.log.Warn().Err(err).
			Str("subject", subject).
			Str("contract_id", contract.ID).
			Msg("notification: failed to publish NATS event (non-fatal)")
		return
	}

	p.log.Debug().
		Str("subject", subject).
		Str("contract_id", contract.ID).
		Msg("notification: event published")
}
