package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RequestStatus represents the material request lifecycle state
type RequestStatus string

const (
	ReqPending   RequestStatus = "PENDING"
	ReqApproved  RequestStatus = "APPROVED"
	ReqRejected  RequestStatus = "REJECTED"
	ReqInTransit RequestStatus = "IN_TRANSIT"
	ReqCompleted RequestStatus = "COMPLETED"
)

// IsTerminal reports whether no further transitions are accepted
func (s RequestStatus) IsTerminal() bool {
	return s == ReqRejected || s == ReqCompleted
}

// RequestItem is one demand line. ApprovedQty stays zero until approval.
type RequestItem struct {
	ItemID      string `json:"itemId"`
	RequestQty  int    `json:"requestQty"`
	ApprovedQty int    `json:"approvedQty"`
}

// RequestLog is one append-only audit entry on a request
type RequestLog struct {
	Action    string    `json:"action"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note,omitempty"`
}

// ApprovalLine is the approver's proposed quantity for one line
type ApprovalLine struct {
	ItemID      string
	ApprovedQty int
}

// ClampedLine reports a line whose approved quantity was reduced to the
// stock available at the source warehouse
type ClampedLine struct {
	ItemID      string `json:"itemId"`
	ProposedQty int    `json:"proposedQty"`
	ApprovedQty int    `json:"approvedQty"`
}

// ExcessApprovalError is a soft-blocking condition: one or more approved
// quantities exceed what was requested and the approver has not confirmed
// the override. Nothing has been mutated when it is returned.
type ExcessApprovalError struct {
	Lines []ClampedLine
}

func (e *ExcessApprovalError) Error() string {
	return fmt.Sprintf("approved quantity exceeds requested quantity on %d line(s); confirmation required", len(e.Lines))
}

// StockLookup resolves live stock for an item at a warehouse
type StockLookup func(itemID string) int

// MaterialRequest is the aggregate root for site demand coordination between
// a site warehouse and a fulfilling source warehouse
type MaterialRequest struct {
	ID                string        `json:"id"`
	Code              string        `json:"code"`
	SiteWarehouseID   string        `json:"siteWarehouseId"`
	SourceWarehouseID string        `json:"sourceWarehouseId,omitempty"`
	RequesterID       string        `json:"requesterId"`
	Status            RequestStatus `json:"status"`
	Items             []RequestItem `json:"items"`
	Note              string        `json:"note,omitempty"`
	CreatedDate       time.Time     `json:"createdDate"`
	ExpectedDate      time.Time     `json:"expectedDate,omitempty"`
	Logs              []RequestLog  `json:"logs"`
	Version           int64         `json:"version"`

	domainEvents []DomainEvent
}

// NewMaterialRequest creates a PENDING request. The source warehouse may be
// left empty and chosen at approval time.
func NewMaterialRequest(siteWarehouseID, sourceWarehouseID, requesterID string, items []RequestItem, note string, expectedDate time.Time) (*MaterialRequest, error) {
	if siteWarehouseID == "" {
		return nil, ErrMissingWarehouse
	}
	if requesterID == "" {
		return nil, fmt.Errorf("requester is required")
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	for i := range items {
		if items[i].ItemID == "" {
			return nil, fmt.Errorf("request item is missing an item id")
		}
		if items[i].RequestQty < 1 {
			return nil, ErrInvalidQuantity
		}
		items[i].ApprovedQty = 0
	}

	now := time.Now().UTC()
	r := &MaterialRequest{
		ID:                fmt.Sprintf("MR-%s", uuid.New().String()[:8]),
		Code:              fmt.Sprintf("MR-%s-%s", now.Format("2006"), uuid.New().String()[:6]),
		SiteWarehouseID:   siteWarehouseID,
		SourceWarehouseID: sourceWarehouseID,
		RequesterID:       requesterID,
		Status:            ReqPending,
		Items:             items,
		Note:              note,
		CreatedDate:       now,
		ExpectedDate:      expectedDate,
	}
	r.appendLog("CREATED", requesterID, note)
	return r, nil
}

// Approve fixes the source warehouse and each line's approved quantity.
// Every proposed quantity is hard-capped at live source stock (a clamp,
// reported via the returned lines, not an error). If any clamped quantity
// still exceeds the requested quantity and confirmExcess is false, an
// ExcessApprovalError is returned before any mutation.
func (r *MaterialRequest) Approve(lines []ApprovalLine, sourceWarehouseID, approverID, note string, stockAt StockLookup, confirmExcess bool) ([]ClampedLine, error) {
	if r.Status != ReqPending {
		return nil, ErrInvalidStatus
	}
	if sourceWarehouseID == "" {
		return nil, ErrSourceNotSet
	}

	proposed := make(map[string]int, len(lines))
	for _, line := range lines {
		proposed[line.ItemID] = line.ApprovedQty
	}

	var clamped []ClampedLine
	var excess []ClampedLine
	resolved := make(map[string]int, len(r.Items))
	for _, item := range r.Items {
		qty := proposed[item.ItemID]
		if qty < 0 {
			qty = 0
		}
		available := stockAt(item.ItemID)
		if available < 0 {
			available = 0
		}
		approved := qty
		if approved > available {
			approved = available
			clamped = append(clamped, ClampedLine{
				ItemID:      item.ItemID,
				ProposedQty: qty,
				ApprovedQty: approved,
			})
		}
		if approved > item.RequestQty {
			excess = append(excess, ClampedLine{
				ItemID:      item.ItemID,
				ProposedQty: qty,
				ApprovedQty: approved,
			})
		}
		resolved[item.ItemID] = approved
	}

	if len(excess) > 0 && !confirmExcess {
		return nil, &ExcessApprovalError{Lines: excess}
	}

	for i := range r.Items {
		r.Items[i].ApprovedQty = resolved[r.Items[i].ItemID]
	}
	r.SourceWarehouseID = sourceWarehouseID
	r.Status = ReqApproved
	r.appendLog("APPROVED", approverID, note)
	r.addDomainEvent(RequestDecidedEvent{
		baseEvent: newBaseEvent(),
		RequestID: r.ID,
		Code:      r.Code,
		Decision:  string(ReqApproved),
	})
	return clamped, nil
}

// Reject declines a PENDING request. Terminal.
func (r *MaterialRequest) Reject(approverID, note string) error {
	if r.Status != ReqPending {
		return ErrInvalidStatus
	}

	r.Status = ReqRejected
	r.appendLog("REJECTED", approverID, note)
	r.addDomainEvent(RequestDecidedEvent{
		baseEvent: newBaseEvent(),
		RequestID: r.ID,
		Code:      r.Code,
		Decision:  string(ReqRejected),
	})
	return nil
}

// MarkInTransit records that the source warehouse has physically shipped
func (r *MaterialRequest) MarkInTransit(actorID string) error {
	if r.Status != ReqApproved {
		return ErrInvalidStatus
	}

	r.Status = ReqInTransit
	r.appendLog("IN_TRANSIT", actorID, "")
	return nil
}

// MarkCompleted confirms physical receipt at the site warehouse. Terminal.
func (r *MaterialRequest) MarkCompleted(actorID string) error {
	if r.Status != ReqInTransit {
		return ErrInvalidStatus
	}

	r.Status = ReqCompleted
	r.appendLog("COMPLETED", actorID, "")
	r.addDomainEvent(RequestCompletedEvent{
		baseEvent: newBaseEvent(),
		RequestID: r.ID,
		Code:      r.Code,
	})
	return nil
}

// ApprovedLines returns the lines with a positive approved quantity
func (r *MaterialRequest) ApprovedLines() []RequestItem {
	var lines []RequestItem
	for _, item := range r.Items {
		if item.ApprovedQty > 0 {
			lines = append(lines, item)
		}
	}
	return lines
}

func (r *MaterialRequest) appendLog(action, userID, note string) {
	r.Logs = append(r.Logs, RequestLog{
		Action:    action,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
		Note:      note,
	})
}

func (r *MaterialRequest) addDomainEvent(event DomainEvent) {
	r.domainEvents = append(r.domainEvents, event)
}

// DomainEvents returns accumulated events
func (r *MaterialRequest) DomainEvents() []DomainEvent {
	return r.domainEvents
}

// ClearDomainEvents resets the event list after publishing
func (r *MaterialRequest) ClearDomainEvents() {
	r.domainEvents = nil
}
