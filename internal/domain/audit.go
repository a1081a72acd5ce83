package domain

import "time"

// AuditLog is an audit trail entry for ledger mutations. Assignments are
// flagged rather than deleted, so together with this trail every money
// movement stays reconstructable.
type AuditLog struct {
	ID           string
	Action       string // what happened (amount.assign, assignment.reverse, ...)
	ResourceType string // incoming_amount, bill, assigned_amount
	ResourceID   string
	RequestID    string
	Detail       JSON
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionAmountCreate     AuditAction = "amount.create"
	AuditActionAmountAssign     AuditAction = "amount.assign"
	AuditActionClientChange     AuditAction = "amount.change_client"
	AuditActionAssignToBill     AuditAction = "assignment.to_bill"
	AuditActionAssignToAmount   AuditAction = "assignment.to_amount"
	AuditActionAssignmentRevert AuditAction = "assignment.reverse"
	AuditActionReversalLink     AuditAction = "reversal.link"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// AuditFilter narrows audit log listings.
type AuditFilter struct {
	Action       string
	ResourceType string
	ResourceID   string
	Limit        int
	Offset       int
}
