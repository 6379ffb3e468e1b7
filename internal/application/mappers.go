package application

import (
	"github.com/wms-platform/materials-service/internal/domain"
)

// ToTransactionDTO maps a transaction aggregate to its HTTP representation
func ToTransactionDTO(tx *domain.Transaction) *TransactionDTO {
	items := make([]TransactionItemDTO, 0, len(tx.Items))
	for _, item := range tx.Items {
		items = append(items, TransactionItemDTO{
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
			Price:    item.Price.String(),
		})
	}

	return &TransactionDTO{
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
		StockApplied:      tx.StockApplied,
		CreatedAt:         tx.CreatedAt,
		UpdatedAt:         tx.UpdatedAt,
	}
}

// ToRequestDTO maps a material request aggregate to its HTTP representation
func ToRequestDTO(req *domain.MaterialRequest) *RequestDTO {
	items := make([]RequestItemDTO, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, RequestItemDTO{
			ItemID:      item.ItemID,
			RequestQty:  item.RequestQty,
			ApprovedQty: item.ApprovedQty,
		})
	}

	logs := make([]RequestLogDTO, 0, len(req.Logs))
	for _, log := range req.Logs {
		logs = append(logs, RequestLogDTO{
			Action:    log.Action,
			UserID:    log.UserID,
			Timestamp: log.Timestamp,
			Note:      log.Note,
		})
	}

	return &RequestDTO{
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
	}
}

// ToItemDTO maps an inventory item aggregate to its HTTP representation
func ToItemDTO(item *domain.InventoryItem) *ItemDTO {
	stock := make(map[string]int, len(item.StockByWarehouse))
	for wh, qty := range item.StockByWarehouse {
		stock[wh] = qty
	}

	return &ItemDTO{
		ID:               item.ID,
		SKU:              item.SKU,
		Name:             item.Name,
		Category:         item.Category,
		Unit:             item.Unit,
		PriceIn:          item.PriceIn.String(),
		PriceOut:         item.PriceOut.String(),
		MinStock:         item.MinStock,
		SupplierID:       item.SupplierID,
		StockByWarehouse: stock,
		TotalStock:       item.TotalStock(),
		LowStock:         item.IsLowStock(),
	}
}

// ToWarehouseDTO maps a warehouse aggregate to its HTTP representation
func ToWarehouseDTO(wh *domain.Warehouse) *WarehouseDTO {
	return &WarehouseDTO{
		ID:      wh.ID,
		Name:    wh.Name,
		Address: wh.Address,
		Type:    string(wh.Type),
		State:   string(wh.State),
	}
}

// ToUserDTO maps a user to its HTTP representation
func ToUserDTO(user *domain.User) *UserDTO {
	return &UserDTO{
		ID:                  user.ID,
		Name:                user.Name,
		Role:                string(user.Role),
		AssignedWarehouseID: user.AssignedWarehouseID,
	}
}
