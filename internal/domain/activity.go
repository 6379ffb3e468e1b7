package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ActivitySeverity labels an activity record
type ActivitySeverity string

const (
	SeverityInfo    ActivitySeverity = "INFO"
	SeverityWarning ActivitySeverity = "WARNING"
)

// ActivityRecord is one append-only audit trail entry. The core writes these
// and never reads them back for decisions.
type ActivityRecord struct {
	ID          string           `json:"id"`
	Type        string           `json:"type"`
	Action      string           `json:"action"`
	Description string           `json:"description"`
	ActorID     string           `json:"actorId"`
	WarehouseID string           `json:"warehouseId,omitempty"`
	ReferenceID string           `json:"referenceId,omitempty"`
	Severity    ActivitySeverity `json:"severity"`
	Timestamp   time.Time        `json:"timestamp"`
}

// NewActivityRecord creates an activity record stamped now
func NewActivityRecord(recordType, action, description, actorID, warehouseID, referenceID string, severity ActivitySeverity) ActivityRecord {
	return ActivityRecord{
		ID:          fmt.Sprintf("ACT-%s", uuid.New().String()[:8]),
		Type:        recordType,
		Action:      action,
		Description: description,
		ActorID:     actorID,
		WarehouseID: warehouseID,
		ReferenceID: referenceID,
		Severity:    severity,
		Timestamp:   time.Now().UTC(),
	}
}
