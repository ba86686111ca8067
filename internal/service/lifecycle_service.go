package service

import (
	"context"
	"fmt"

	"github.com/pesio-ai/be-contracts/internal/errors"
	"github.com/pesio-ai/be-contracts/internal/lifecycle"
	"github.com/pesio-ai/be-contracts/internal/logger"
	"github.com/pesio-ai/be-contracts/internal/repository"
)

// LifecycleService is the only path through which a contract's status changes.
type LifecycleService struct {
	contractRepo  *repository.ContractRepository
	blueprintRepo *repository.BlueprintRepository
	notifier      LifecycleNotifier
	log           *logger.Logger
}

// NewLifecycleService creates a new LifecycleService. A nil notifier disables
// events.
func NewLifecycleService(
	contractRepo *repository.ContractRepository,
	blueprintRepo *repository.BlueprintRepository,
	notifier LifecycleNotifier,
	log *logger.Logger,
) *LifecycleService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &LifecycleService{
		contractRepo:  contractRepo,
		blueprintRepo: blueprintRepo,
		notifier:      notifier,
		log:           log,
	}
}

// LifecycleView is everything a client needs to render one contract.
type LifecycleView struct {
	Contract   *repository.Contract  `json:"contract"`
	Blueprint  *repository.Blueprint `json:"blueprint"`
	Locked     bool                  `json:"locked"`
	CanRevoke  bool                  `json:"canRevoke"`
	BadgeClass string                `json:"badgeClass"`
	Actions    []lifecycle.Action    `json:"actions"`
	Timeline   []lifecycle.Step      `json:"timeline"`
}

// ── Transitions ──────────────────────────────────────────────────────────────

// Transition moves a contract to target. A move missing from the transition
// table fails with INVALID_TRANSITION and leaves the stored contract as it was.
func (s *LifecycleService) Transition(ctx context.Context, id string, target lifecycle.Status) (*repository.Contract, error) {
	var from lifecycle.Status
	updated, err := s.contractRepo.Update(ctx, id, func(c *repository.Contract) error {
		from = c.Status
		if err := lifecycle.Transition(c.Status, target); err != nil {
			return errors.Wrap(err, errors.ErrCodeInvalidTransition,
				fmt.Sprintf("cannot move contract '%s'", c.Name))
		}
		c.Status = target
		return nil
	})
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeInvalidTransition) {
			s.log.Debug().
				Str("contract_id", id).
				Str("from", from.String()).
				Str("to", target.String()).
				Msg("Transition rejected")
		}
		return nil, err
	}

	s.log.Info().
		Str("contract_id", id).
		Str("from", from.String()).
		Str("to", target.String()).
		Msg("Contract status changed")

	s.notifier.PublishContractEvent(ctx, transitionEvent(target), updated)

	return updated, nil
}

// Approve moves a created contract to APPROVED
func (s *LifecycleService) Approve(ctx context.Context, id string) (*repository.Contract, error) {
	return s.Transition(ctx, id, lifecycle.StatusApproved)
}

// Send moves an approved contract to SENT
func (s *LifecycleService) Send(ctx context.Context, id string) (*repository.Contract, error) {
	return s.Transition(ctx, id, lifecycle.StatusSent)
}

// Sign moves a sent contract to SIGNED
func (s *LifecycleService) Sign(ctx context.Context, id string) (*repository.Contract, error) {
	return s.Transition(ctx, id, lifecycle.StatusSigned)
}

// Lock freezes a signed contract
func (s *LifecycleService) Lock(ctx context.Context, id string) (*repository.Contract, error) {
	return s.Transition(ctx, id, lifecycle.StatusLocked)
}

// Revoke sends an approved contract back to CREATED
func (s *LifecycleService) Revoke(ctx context.Context, id string) (*repository.Contract, error) {
	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !lifecycle.CanRevoke(contract.Status) {
		return nil, errors.Wrap(
			&lifecycle.InvalidTransitionError{From: contract.Status, To: lifecycle.StatusCreated},
			errors.ErrCodeInvalidTransition,
			fmt.Sprintf("only approved contracts can be revoked, '%s' is %s", contract.Name, contract.Status))
	}
	return s.Transition(ctx, id, lifecycle.StatusCreated)
}

// ── Views ────────────────────────────────────────────────────────────────────

// View derives the lifecycle presentation of a contract. A contract whose
// blueprint has been deleted yields a blueprint NotFound error.
func (s *LifecycleService) View(ctx context.Context, id string) (*LifecycleView, error) {
	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	blueprint, err := s.blueprintRepo.GetByID(ctx, contract.BlueprintID)
	if err != nil {
		return nil, err
	}

	return &LifecycleView{
		Contract:   contract,
		Blueprint:  blueprint,
		Locked:     lifecycle.IsLocked(contract.Status),
		CanRevoke:  lifecycle.CanRevoke(contract.Status),
		BadgeClass: lifecycle.BadgeClass(contract.Status),
		Actions:    lifecycle.Actions(contract.Status),
		Timeline:   lifecycle.Timeline(contract.Status),
	}, nil
}
