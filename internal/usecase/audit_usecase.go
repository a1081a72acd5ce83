package usecase

import (
	"context"

	"github.com/iho/debtledger/internal/domain"
)

// AuditUseCase exposes the audit trail to the web layer.
type AuditUseCase struct {
	auditRepo AuditRepository
}

// NewAuditUseCase creates a new AuditUseCase.
func NewAuditUseCase(auditRepo AuditRepository) *AuditUseCase {
	return &AuditUseCase{auditRepo: auditRepo}
}

// ListAuditLogs lists audit entries matching a filter.
func (uc *AuditUseCase) ListAuditLogs(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	if filter.Limit > 500 {
		filter.Limit = 500
	}

	return uc.auditRepo.List(ctx, filter)
}
