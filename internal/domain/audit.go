package domain

import (
	"encoding/json"
	"time"
)

// AuditLog represents an audit trail entry for compliance and debugging
type AuditLog struct {
	ID           string
	UserID       string // Who performed the action
	BranchID     string // Branch the actor was operating in
	Action       string // What action (gl.post, float.adjust, etc.)
	ResourceType string // Type of resource (gl_transaction, float_account, mapping)
	ResourceID   string // ID of the resource
	RequestID    string // Request ID for tracing
	BeforeState  JSON   // State before the action
	AfterState   JSON   // State after the action
	Status       string // success, failure, error
	ErrorMessage string // If status=error, the error message
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	// GL actions
	AuditActionGLPost    AuditAction = "gl.post"
	AuditActionGLReverse AuditAction = "gl.reverse"
	AuditActionGLRepair  AuditAction = "gl.repair"

	// Float actions
	AuditActionFloatCreate AuditAction = "float.create"
	AuditActionFloatAdjust AuditAction = "float.adjust"

	// Settlement actions
	AuditActionSettlement AuditAction = "settlement.transfer"

	// Configuration actions
	AuditActionMappingCreate AuditAction = "mapping.create"
	AuditActionMappingDelete AuditAction = "mapping.delete"
	AuditActionAccountCreate AuditAction = "account.create"
	AuditActionChartSeed     AuditAction = "chart.seed"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
	AuditStatusError   AuditStatus = "error"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	UserID       string
	BranchID     string
	Action       string
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}
