package domain

import (
	"encoding/json"
	"time"
)

// AuditLog records who changed what, written with the change itself.
type AuditLog struct {
	ID           string
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	RequestID    string
	BeforeState  JSON
	AfterState   JSON
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	AuditActionMaterialCreate AuditAction = "material.create"
	AuditActionMaterialUpdate AuditAction = "material.update"

	AuditActionEntryCreate  AuditAction = "entry.create"
	AuditActionEntryUpdate  AuditAction = "entry.update"
	AuditActionEntryDelete  AuditAction = "entry.delete"
	AuditActionEntryReverse AuditAction = "entry.reverse"

	AuditActionCustomerCreate AuditAction = "customer.create"
	AuditActionCustomerUpdate AuditAction = "customer.update"
	AuditActionCustomerVisit  AuditAction = "customer.visit"
	AuditActionCustomerDelete AuditAction = "customer.delete"

	AuditActionEventTypeCreate AuditAction = "event_type.create"

	AuditActionChargeCreate AuditAction = "extra_charge.create"
	AuditActionChargeUpdate AuditAction = "extra_charge.update"
	AuditActionChargeDelete AuditAction = "extra_charge.delete"
)

// Resource types
const (
	ResourceTypeMaterial    = "material"
	ResourceTypeEntry       = "entry"
	ResourceTypeCustomer    = "customer"
	ResourceTypeEventType   = "event_type"
	ResourceTypeExtraCharge = "extra_charge"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
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
	Action       string
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}
