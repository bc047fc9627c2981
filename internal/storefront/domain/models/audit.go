package models

import (
	"time"
)

const (
	ActionCreate  = "CREATE"
	ActionUpdate  = "UPDATE"
	ActionDelete  = "DELETE"
	ActionReorder = "REORDER"
)

type AuditEntry struct {
	ID        string                 `json:"audit_id"` //nolint:tagliatelle
	Actor     string                 `json:"actor"`
	Action    string                 `json:"action"`
	Resource  string                 `json:"resource"`
	ResourceID string                `json:"resource_id"` //nolint:tagliatelle
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"` //nolint:tagliatelle
}
