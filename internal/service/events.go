package service

import (
	"context"

	"github.com/pesio-ai/be-contracts/internal/lifecycle"
	"github.com/pesio-ai/be-contracts/internal/repository"
)

// Contract event types published after a change is persisted.
const (
	EventContractCreated  = "contract_created"
	EventContractApproved = "contract_approved"
	EventContractSent     = "contract_sent"
	EventContractSigned   = "contract_signed"
	EventContractLocked   = "contract_locked"
	EventContractRevoked  = "contract_revoked"
)

// LifecycleNotifier receives contract events. Implementations must not block
// for long and must swallow their own failures.
type LifecycleNotifier interface {
	PublishContractEvent(ctx context.Context, eventType string, contract *repository.Contract)
}

type nopNotifier struct{}

func (nopNotifier) PublishContractEvent(context.Context, string, *repository.Contract) {}

// transitionEvent names the event for a move into target. The only move into
// CREATED is the revoke edge.
func transitionEvent(target lifecycle.Status) string {
	switch target {
	case lifecycle.StatusCreated:
		return EventContractRevoked
	case lifecycle.StatusApproved:
		return EventContractApproved
	case lifecycle.StatusSent:
		return EventContractSent
	case lifecycle.StatusSigned:
		return EventContractSigned
	case lifecycle.StatusLocked:
		return EventContractLocked
	}
	return ""
}
