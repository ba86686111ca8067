package client

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesio-ai/be-contracts/internal/lifecycle"
	"github.com/pesio-ai/be-contracts/internal/repository"
)

type publishedMsg struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	msgs []publishedMsg
	err  error
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, publishedMsg{subject: subject, data: data})
	return nil
}

func sampleContract() *repository.Contract {
	return &repository.Contract{
		ID:            "c-1",
		Name:          "Acme NDA",
		BlueprintID:   "bp-1",
		BlueprintName: "NDA",
		Status:        lifecycle.StatusLocked,
	}
}

func TestNotificationPublisher_PublishContractEvent(t *testing.T) {
	fake := &fakePublisher{}
	p := NewNotificationPublisher(fake, "", zerolog.Nop())
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	p.PublishContractEvent(context.Background(), "contract_locked", sampleContract())

	require.Len(t, fake.msgs, 1)
	assert.Equal(t, "contracts.lifecycle.contract_locked", fake.msgs[0].subject)

	var event ContractEvent
	require.NoError(t, json.Unmarshal(fake.msgs[0].data, &event))
	assert.Equal(t, "contract_locked", event.EventType)
	assert.Equal(t, "c-1", event.ContractID)
	assert.Equal(t, "NDA", event.BlueprintName)
	assert.Equal(t, "LOCKED", event.Status)
	assert.True(t, event.Locked)
	assert.True(t, fixed.Equal(event.OccurredAt))
}

func TestNotificationPublisher_CustomPrefix(t *testing.T) {
	p := NewNotificationPublisher(&fakePublisher{}, "acme.contracts", zerolog.Nop())
	assert.Equal(t, "acme.contracts.contract_signed", p.Subject("contract_signed"))
}

func TestNotificationPublisher_NonFatal(t *testing.T) {
	ctx := context.Background()

	t.Run("nil connection", func(t *testing.T) {
		p := NewNotificationPublisher(nil, "", zerolog.Nop())
		assert.NotPanics(t, func() {
			p.PublishContractEvent(ctx, "contract_created", sampleContract())
		})
	})

	t.Run("typed nil nats connection", func(t *testing.T) {
		var nc *nats.Conn
		p := NewNotificationPublisher(nc, "", zerolog.Nop())
		assert.Nil(t, p.conn)
		assert.NotPanics(t, func() {
			p.PublishContractEvent(ctx, "contract_created", sampleContract())
		})

		var fake *fakePublisher
		assert.Nil(t, NewNotificationPublisher(fake, "", zerolog.Nop()).conn)
	})

	t.Run("nil publisher", func(t *testing.T) {
		var p *NotificationPublisher
		assert.NotPanics(t, func() {
			p.PublishContractEvent(ctx, "contract_created", sampleContract())
		})
	})

	t.Run("publish error", func(t *testing.T) {
		fake := &fakePublisher{err: errors.New("nats: connection closed")}
		p := NewNotificationPublisher(fake, "", zerolog.Nop())
		assert.NotPanics(t, func() {
			p.PublishContractEvent(ctx, "contract_created", sampleContract())
		})
		assert.Empty(t, fake.msgs)
	})

	t.Run("cancelled context", func(t *testing.T) {
		fake := &fakePublisher{}
		p := NewNotificationPublisher(fake, "", zerolog.Nop())
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		p.PublishContractEvent(cctx, "contract_created", sampleContract())
		assert.Empty(t, fake.msgs)
	})
}
