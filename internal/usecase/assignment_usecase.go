package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/debtledger/internal/domain"
)

// AssignmentUseCase creates, queries and reverses assignment records,
// keeping the at-most-fully-assigned invariant on every path.
type AssignmentUseCase struct {
	txManager      TransactionManager
	amountRepo     AmountRepository
	billRepo       BillRepository
	assignmentRepo AssignmentRepository
	clientRepo     ClientRepository
	auditRepo      AuditRepository
	idGen          IDGenerator
	matching       *MatchingUseCase
}

// NewAssignmentUseCase creates a new AssignmentUseCase.
func NewAssignmentUseCase(
	txManager TransactionManager,
	amountRepo AmountRepository,
	billRepo BillRepository,
	assignmentRepo AssignmentRepository,
	clientRepo ClientRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	matching *MatchingUseCase,
) *AssignmentUseCase {
	return &AssignmentUseCase{
		txManager:      txManager,
		amountRepo:     amountRepo,
		billRepo:       billRepo,
		assignmentRepo: assignmentRepo,
		clientRepo:     clientRepo,
		auditRepo:      auditRepo,
		idGen:          idGen,
		matching:       matching,
	}
}

// AssignToBillInput settles an amount against one bill. SettleAmount
// defaults to the bill's full total; values below the total are rejected,
// a partial bill payment never happens on this path.
type AssignToBillInput struct {
	AmountID     string
	BillID       string
	SettleAmount *int64
}

// AssignToBill settles the given bill from the amount's unassigned
// remainder, marks the bill paid and updates the amount's fully-assigned
// state. All of it commits atomically.
func (uc *AssignmentUseCase) AssignToBill(ctx context.Context, input AssignToBillInput) (*domain.AssignedAmount, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	amount, err := uc.amountRepo.GetByIDForUpdate(ctx, tx, input.AmountID)
	if err != nil {
		return nil, err
	}

	bill, err := uc.billRepo.GetByIDForUpdate(ctx, tx, input.BillID)
	if err != nil {
		return nil, err
	}

	if bill.Currency != amount.Currency {
		return nil, fmt.Errorf("%w: amount %s is %s, bill %s is %s",
			domain.ErrCurrencyMismatch, amount.ID, amount.Currency, bill.ID, bill.Currency)
	}

	if !bill.Payable() {
		return nil, fmt.Errorf("%w: bill %s has status %q", domain.ErrBillNotPayable, bill.ID, bill.Status)
	}

	total := bill.Total()
	settle := total
	if input.SettleAmount != nil {
		settle = *input.SettleAmount
	}

	if settle < total {
		return nil, fmt.Errorf("%w: %d is below bill total %d, partial settlement is not allowed",
			domain.ErrInsufficientAmount, settle, total)
	}

	assigned, err := uc.assignmentRepo.SumActiveByFromAmount(ctx, tx, amount.ID)
	if err != nil {
		return nil, err
	}

	available := amount.Unassigned(assigned)
	if settle > available {
		return nil, fmt.Errorf("%w: %d exceeds unassigned remainder %d of amount %s",
			domain.ErrInsufficientAmount, settle, available, amount.ID)
	}

	now := time.Now().UTC()
	assignment := &domain.AssignedAmount{
		ID:           uc.idGen.Generate(),
		FromAmountID: amount.ID,
		Currency:     amount.Currency,
		Amount:       settle,
		BillID:       &bill.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := assignment.Validate(); err != nil {
		return nil, err
	}

	if err := uc.assignmentRepo.Create(ctx, tx, assignment); err != nil {
		return nil, err
	}

	if err := uc.billRepo.UpdateStatus(ctx, tx, bill.ID, domain.BillStatusPaid, now); err != nil {
		return nil, err
	}

	if assigned+settle == amount.Amount {
		if err := uc.amountRepo.SetFullyAssigned(ctx, tx, amount.ID, true, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.writeAudit(ctx, domain.AuditActionAssignToBill, assignment.ID, domain.JSON{
		"from_amount": amount.ID,
		"bill":        bill.ID,
		"amount":      settle,
	})

	return assignment, nil
}

// AssignToAmountInput assigns the whole unassigned remainder of one amount
// to another amount. OtherCcy and OtherAmount carry the converted value
// when the target is in a different currency.
type AssignToAmountInput struct {
	AmountID       string
	TargetAmountID string
	OtherCcy       *string
	OtherAmount    *int64
}

// AssignToAmount moves the source's whole unassigned remainder onto the
// target amount and marks the source fully assigned.
func (uc *AssignmentUseCase) AssignToAmount(ctx context.Context, input AssignToAmountInput) (*domain.AssignedAmount, error) {
	if input.AmountID == input.TargetAmountID {
		return nil, fmt.Errorf("%w: amount %s cannot settle itself", domain.ErrInvalidTarget, input.AmountID)
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock in a fixed order so two crossing assignments cannot deadlock.
	first, second := input.AmountID, input.TargetAmountID
	if second < first {
		first, second = second, first
	}

	locked := make(map[string]*domain.IncomingAmount, 2)
	for _, id := range []string{first, second} {
		amount, err := uc.amountRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = amount
	}

	source := locked[input.AmountID]
	target := locked[input.TargetAmountID]

	if source.DebCred != domain.Credit {
		return nil, fmt.Errorf("%w: amount %s is a debit entry, link it as a reversal instead",
			domain.ErrWrongDirection, source.ID)
	}

	assigned, err := uc.assignmentRepo.SumActiveByFromAmount(ctx, tx, source.ID)
	if err != nil {
		return nil, err
	}

	remainder := source.Unassigned(assigned)
	if remainder == 0 {
		return nil, fmt.Errorf("%w: amount %s", domain.ErrZeroAmount, source.ID)
	}

	applied := remainder
	var targetCcy *string
	var targetAmount *int64

	if target.Currency != source.Currency {
		if input.OtherCcy == nil || input.OtherAmount == nil {
			return nil, fmt.Errorf("%w: %s to %s", domain.ErrMissingConversion, source.Currency, target.Currency)
		}

		otherCcy, err := domain.NormalizeCurrency(*input.OtherCcy)
		if err != nil {
			return nil, err
		}

		if otherCcy != target.Currency {
			return nil, fmt.Errorf("%w: conversion is in %s, target %s is %s",
				domain.ErrCurrencyMismatch, otherCcy, target.ID, target.Currency)
		}

		if *input.OtherAmount <= 0 {
			return nil, fmt.Errorf("%w: converted value %d", domain.ErrNegativeAmount, *input.OtherAmount)
		}

		applied = *input.OtherAmount
		targetCcy = &otherCcy
		targetAmount = input.OtherAmount
	}

	now := time.Now().UTC()
	assignment := &domain.AssignedAmount{
		ID:             uc.idGen.Generate(),
		FromAmountID:   source.ID,
		Currency:       source.Currency,
		Amount:         remainder,
		ToAmountID:     &target.ID,
		TargetCurrency: targetCcy,
		TargetAmount:   targetAmount,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := assignment.Validate(); err != nil {
		return nil, err
	}

	if err := uc.assignmentRepo.Create(ctx, tx, assignment); err != nil {
		return nil, err
	}

	if err := uc.amountRepo.AddToAmount(ctx, tx, target.ID, applied, now); err != nil {
		return nil, err
	}

	if err := uc.amountRepo.SetFullyAssigned(ctx, tx, source.ID, true, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.writeAudit(ctx, domain.AuditActionAssignToAmount, assignment.ID, domain.JSON{
		"from_amount": source.ID,
		"to_amount":   target.ID,
		"amount":      remainder,
		"applied":     applied,
	})

	return assignment, nil
}

// ChangeClient re-links an amount to another client and re-triggers the
// automatic settlement. An amount that already settled something cannot be
// re-attached.
func (uc *AssignmentUseCase) ChangeClient(ctx context.Context, amountID, clientID string) (*AssignAmountResult, error) {
	if _, err := uc.clientRepo.GetByID(ctx, clientID); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	amount, err := uc.amountRepo.GetByIDForUpdate(ctx, tx, amountID)
	if err != nil {
		return nil, err
	}

	active, err := uc.assignmentRepo.CountActiveByFromAmount(ctx, tx, amount.ID)
	if err != nil {
		return nil, err
	}

	if active > 0 {
		return nil, fmt.Errorf("%w: amount %s has %d active assignments",
			domain.ErrAlreadyAssigned, amount.ID, active)
	}

	now := time.Now().UTC()
	if err := uc.amountRepo.SetClient(ctx, tx, amount.ID, &clientID, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.writeAudit(ctx, domain.AuditActionClientChange, amount.ID, domain.JSON{"client": clientID})

	return uc.matching.AssignAmount(ctx, amountID)
}

// ReverseAssignment logically deletes an assignment: the row is flagged,
// the bill or target amount gets its pre-assignment state back and the
// source amount is no longer fully assigned.
func (uc *AssignmentUseCase) ReverseAssignment(ctx context.Context, assignmentID string) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	assignment, err := uc.assignmentRepo.GetByIDForUpdate(ctx, tx, assignmentID)
	if err != nil {
		return err
	}

	if assignment.Reversed {
		return fmt.Errorf("%w: assignment %s", domain.ErrAssignmentReversed, assignment.ID)
	}

	source, err := uc.amountRepo.GetByIDForUpdate(ctx, tx, assignment.FromAmountID)
	if err != nil {
		return err
	}

	if source.ReversalIndicator {
		return fmt.Errorf("%w: source amount %s", domain.ErrNotReversible, source.ID)
	}

	now := time.Now().UTC()

	if err := uc.assignmentRepo.MarkReversed(ctx, tx, assignment.ID, now); err != nil {
		return err
	}

	switch {
	case assignment.BillID != nil:
		if err := uc.billRepo.UpdateStatus(ctx, tx, *assignment.BillID, domain.BillStatusIssued, now); err != nil {
			return err
		}
	case assignment.ToAmountID != nil:
		if source.DebCred == domain.Debit {
			// A reversal link never moved value onto the credit, it only
			// pinned both entries. Releasing it reopens the credit.
			if err := uc.amountRepo.SetFullyAssigned(ctx, tx, *assignment.ToAmountID, false, now); err != nil {
				return err
			}
		} else if err := uc.amountRepo.AddToAmount(ctx, tx, *assignment.ToAmountID, -assignment.AppliedAmount(), now); err != nil {
			return err
		}
	}

	if source.FullyAssigned {
		if err := uc.amountRepo.SetFullyAssigned(ctx, tx, source.ID, false, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	uc.writeAudit(ctx, domain.AuditActionAssignmentRevert, assignment.ID, domain.JSON{
		"from_amount": assignment.FromAmountID,
		"amount":      assignment.Amount,
	})

	return nil
}

// ListAssignments returns the active outgoing assignments of an amount in
// creation order.
func (uc *AssignmentUseCase) ListAssignments(ctx context.Context, amountID string) ([]*domain.AssignedAmount, error) {
	if _, err := uc.amountRepo.GetByID(ctx, amountID); err != nil {
		return nil, err
	}

	return uc.assignmentRepo.ListActiveByFromAmount(ctx, amountID)
}

func (uc *AssignmentUseCase) writeAudit(ctx context.Context, action domain.AuditAction, resourceID string, detail domain.JSON) {
	if uc.auditRepo == nil {
		return
	}

	resourceType := "assigned_amount"
	if action == domain.AuditActionClientChange {
		resourceType = "incoming_amount"
	}

	_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
		Action:       string(action),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Detail:       detail,
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	})
}
