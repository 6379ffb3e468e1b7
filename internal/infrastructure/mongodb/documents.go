package mongodb

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wms-platform/materials-service/internal/domain"
)

// Prices are stored as strings: decimal values must survive the round trip
// without binary floating point drift.

type itemDocument struct {
	ID               string         `bson:"_id"`
	SKU              string         `bson:"sku"`
	Name             string         `bson:"name"`
	Category         string         `bson:"category,omitempty"`
	Unit             string         `bson:"unit"`
	PriceIn          string         `bson:"priceIn"`
	PriceOut         string         `bson:"priceOut"`
	MinStock         int            `bson:"minStock"`
	SupplierID       string         `bson:"supplierId,omitempty"`
	StockByWarehouse map[string]int `bson:"stockByWarehouse"`
	CreatedAt        time.Time      `bson:"createdAt"`
	UpdatedAt        time.Time      `bson:"updatedAt"`
	Version          int64          `bson:"version"`
}

func toItemDocument(item *domain.InventoryItem) *itemDocument {
	return &itemDocument{
		ID:               item.ID,
		SKU:              item.SKU,
		Name:             item.Name,
		Category:         item.Category,
		Unit:             item.Unit,
		PriceIn:          item.PriceIn.String(),
		PriceOut:         item.PriceOut.String(),
		MinStock:         item.MinStock,
		SupplierID:       item.SupplierID,
		StockByWarehouse: item.StockByWarehouse,
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
		Version:          item.Version,
	}
}

func (d *itemDocument) toDomain() (*domain.InventoryItem, error) {
	priceIn, err := decimal.NewFromString(d.PriceIn)
	if err != nil {
		return nil, err
	}
	priceOut, err := decimal.NewFromString(d.PriceOut)
	if err != nil {
		return nil, err
	}

	stock := d.StockByWarehouse
	if stock == nil {
		stock = make(map[string]int)
	}

	return &domain.InventoryItem{
		ID:               d.ID,
		SKU:              d.SKU,
		Name:             d.Name,
		Category:         d.Category,
		Unit:             d.Unit,
		PriceIn:          priceIn,
		PriceOut:         priceOut,
		MinStock:         d.MinStock,
		SupplierID:       d.SupplierID,
		StockByWarehouse: stock,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
		Version:          d.Version,
	}, nil
}

type transactionItemDocument struct {
	ItemID   string `bson:"itemId"`
	Quantity int    `bson:"quantity"`
	Price    string `bson:"price"`
}

type pendingItemDocument struct {
	ItemID     string `bson:"itemId"`
	SKU        string `bson:"sku"`
	Name       string `bson:"name"`
	Category   string `bson:"category,omitempty"`
	Unit       string `bson:"unit"`
	PriceIn    string `bson:"priceIn"`
	PriceOut   string `bson:"priceOut"`
	MinStock   int    `bson:"minStock"`
	SupplierID string `bson:"supplierId,omitempty"`
}

type transactionDocument struct {
	ID                string                    `bson:"_id"`
	Type              string                    `bson:"type"`
	Status            string                    `bson:"status"`
	Items             []transactionItemDocument `bson:"items"`
	SourceWarehouseID string                    `bson:"sourceWarehouseId,omitempty"`
	TargetWarehouseID string                    `bson:"targetWarehouseId,omitempty"`
	SupplierID        string                    `bson:"supplierId,omitempty"`
	RequesterID       string                    `bson:"requesterId"`
	ApproverID        string                    `bson:"approverId,omitempty"`
	Note              string                    `bson:"note,omitempty"`
	RelatedRequestID  string                    `bson:"relatedRequestId,omitempty"`
	PendingItems      []pendingItemDocument     `bson:"pendingItems,omitempty"`
	StockApplied      bool                      `bson:"stockApplied"`
	CreatedAt         time.Time                 `bson:"createdAt"`
	UpdatedAt         time.Time                 `bson:"updatedAt"`
	Version           int64                     `bson:"version"`
}

func toTransactionDocument(tx *domain.Transaction) *transactionDocument {
	items := make([]transactionItemDocument, 0, len(tx.Items))
	for _, item := range tx.Items {
		items = append(items, transactionItemDocument{
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
			Price:    item.Price.String(),
		})
	}

	var pending []pendingItemDocument
	for _, p := range tx.PendingItems {
		pending = append(pending, pendingItemDocument{
			ItemID:     p.ItemID,
			SKU:        p.SKU,
			Name:       p.Name,
			Category:   p.Category,
			Unit:       p.Unit,
			PriceIn:    p.PriceIn.String(),
			PriceOut:   p.PriceOut.String(),
			MinStock:   p.MinStock,
			SupplierID: p.SupplierID,
		})
	}

	return &transactionDocument{
		ID:                tx.ID,
		Type:              string(tx.Type),
		Status:            string(tx.Status),
		Items:             items,
		SourceWarehouseID: tx.SourceWarehouseID,
		TargetWarehouseID: tx.TargetWarehouseID,
		SupplierID:        tx.SupplierID,
		RequesterID:       tx.RequesterID,
		ApproverID:        tx.ApproverID,
		Note:              tx.Note,
		RelatedRequestID:  tx.RelatedRequestID,
		PendingItems:      pending,
		StockApplied:      tx.StockApplied,
		CreatedAt:         tx.CreatedAt,
		UpdatedAt:         tx.UpdatedAt,
		Version:           tx.Version,
	}
}

func (d *transactionDocument) toDomain() (*domain.Transaction, error) {
	items := make([]domain.TransactionItem, 0, len(d.Items))
	for _, item := range d.Items {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, domain.TransactionItem{
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
			Price:    price,
		})
	}

	var pending []domain.PendingItem
	for _, p := range d.PendingItems {
		priceIn, err := decimal.NewFromString(p.PriceIn)
		if err != nil {
			return nil, err
		}
		priceOut, err := decimal.NewFromString(p.PriceOut)
		if err != nil {
			return nil, err
		}
		pending = append(pending, domain.PendingItem{
			ItemID:     p.ItemID,
			SKU:        p.SKU,
			Name:       p.Name,
			Category:   p.Category,
			Unit:       p.Unit,
			PriceIn:    priceIn,
			PriceOut:   priceOut,
			MinStock:   p.MinStock,
			SupplierID: p.SupplierID,
		})
	}

	return &domain.Transaction{
		ID:                d.ID,
		Type:              domain.TransactionType(d.Type),
		Status:            domain.TransactionStatus(d.Status),
		Items:             items,
		SourceWarehouseID: d.SourceWarehouseID,
		TargetWarehouseID: d.TargetWarehouseID,
		SupplierID:        d.SupplierID,
		RequesterID:       d.RequesterID,
		ApproverID:        d.ApproverID,
		Note:              d.Note,
		RelatedRequestID:  d.RelatedRequestID,
		PendingItems:      pending,
		StockApplied:      d.StockApplied,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
		Version:           d.Version,
	}, nil
}

type requestItemDocument struct {
	ItemID      string `bson:"itemId"`
	RequestQty  int    `bson:"requestQty"`
	ApprovedQty int    `bson:"approvedQty"`
}

type requestLogDocument struct {
	Action    string    `bson:"action"`
	UserID    string    `bson:"userId"`
	Timestamp time.Time `bson:"timestamp"`
	Note      string    `bson:"note,omitempty"`
}

type requestDocument struct {
	ID                string                `bson:"_id"`
	Code              string                `bson:"code"`
	SiteWarehouseID   string                `bson:"siteWarehouseId"`
	SourceWarehouseID string                `bson:"sourceWarehouseId,omitempty"`
	RequesterID       string                `bson:"requesterId"`
	Status            string                `bson:"status"`
	Items             []requestItemDocument `bson:"items"`
	Note              string                `bson:"note,omitempty"`
	CreatedDate       time.Time             `bson:"createdDate"`
	ExpectedDate      time.Time             `bson:"expectedDate,omitempty"`
	Logs              []requestLogDocument  `bson:"logs"`
	Version           int64                 `bson:"version"`
}

func toRequestDocument(req *domain.MaterialRequest) *requestDocument {
	items := make([]requestItemDocument, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, requestItemDocument(item))
	}
	logs := make([]requestLogDocument, 0, len(req.Logs))
	for _, log := range req.Logs {
		logs = append(logs, requestLogDocument(log))
	}

	return &requestDocument{
		ID:                req.ID,
		Code:              req.Code,
		SiteWarehouseID:   req.SiteWarehouseID,
		SourceWarehouseID: req.SourceWarehouseID,
		RequesterID:       req.RequesterID,
		Status:            string(req.Status),
		Items:             items,
		Note:              req.Note,
		CreatedDate:       req.CreatedDate,
		ExpectedDate:      req.ExpectedDate,
		Logs:              logs,
		Version:           req.Version,
	}
}

func (d *requestDocument) toDomain() *domain.MaterialRequest {
	items := make([]domain.RequestItem, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, domain.RequestItem(item))
	}
	logs := make([]domain.RequestLog, 0, len(d.Logs))
	for _, log := range d.Logs {
		logs = append(logs, domain.RequestLog(log))
	}

	return &domain.MaterialRequest{
		ID:                d.ID,
		Code:              d.Code,
		SiteWarehouseID:   d.SiteWarehouseID,
		SourceWarehouseID: d.SourceWarehouseID,
		RequesterID:       d.RequesterID,
		Status:            domain.RequestStatus(d.Status),
		Items:             items,
		Note:              d.Note,
		CreatedDate:       d.CreatedDate,
		ExpectedDate:      d.ExpectedDate,
		Logs:              logs,
		Version:           d.Version,
	}
}

type warehouseDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Address   string    `bson:"address,omitempty"`
	Type      string    `bson:"type"`
	State     string    `bson:"state"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
	Version   int64     `bson:"version"`
}

func toWarehouseDocument(wh *domain.Warehouse) *warehouseDocument {
	return &warehouseDocument{
		ID:        wh.ID,
		Name:      wh.Name,
		Address:   wh.Address,
		Type:      string(wh.Type),
		State:     string(wh.State),
		CreatedAt: wh.CreatedAt,
		UpdatedAt: wh.UpdatedAt,
		Version:   wh.Version,
	}
}

func (d *warehouseDocument) toDomain() *domain.Warehouse {
	return &domain.Warehouse{
		ID:        d.ID,
		Name:      d.Name,
		Address:   d.Address,
		Type:      domain.WarehouseType(d.Type),
		State:     domain.WarehouseState(d.State),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		Version:   d.Version,
	}
}

type userDocument struct {
	ID                  string `bson:"_id"`
	Name                string `bson:"name"`
	Role                string `bson:"role"`
	AssignedWarehouseID string `bson:"assignedWarehouseId,omitempty"`
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:                  d.ID,
		Name:                d.Name,
		Role:                domain.Role(d.Role),
		AssignedWarehouseID: d.AssignedWarehouseID,
	}
}

type activityDocument struct {
	ID          string    `bson:"_id"`
	Type        string    `bson:"type"`
	Action      string    `bson:"action"`
	Description string    `bson:"description"`
	ActorID     string    `bson:"actorId"`
	WarehouseID string    `bson:"warehouseId,omitempty"`
	ReferenceID string    `bson:"referenceId,omitempty"`
	Severity    string    `bson:"severity"`
	Timestamp   time.Time `bson:"timestamp"`
}

func toActivityDocument(record domain.ActivityRecord) *activityDocument {
	return &activityDocument{
		ID:          record.ID,
		Type:        record.Type,
		Action:      record.Action,
		Description: record.Description,
		ActorID:     record.ActorID,
		WarehouseID: record.WarehouseID,
		ReferenceID: record.ReferenceID,
		Severity:    string(record.Severity),
		Timestamp:   record.Timestamp,
	}
}

func (d *activityDocument) toDomain() domain.ActivityRecord {
	return domain.ActivityRecord{
		ID:          d.ID,
		Type:        d.Type,
		Action:      d.Action,
		Description: d.Description,
		ActorID:     d.ActorID,
		WarehouseID: d.WarehouseID,
		ReferenceID: d.ReferenceID,
		Severity:    domain.ActivitySeverity(d.Severity),
		Timestamp:   d.Timestamp,
	}
}
