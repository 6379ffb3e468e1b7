package dto

import (
	"github.com/wms-platform/materials-service/internal/application"
	"github.com/wms-platform/materials-service/internal/domain"
)

// TransactionListResponse wraps a transaction listing
type TransactionListResponse struct {
	Transactions []*application.TransactionDTO `json:"transactions"`
	Total        int                           `json:"total"`
}

// RequestListResponse wraps a material request listing
type RequestListResponse struct {
	Requests []*application.RequestDTO `json:"requests"`
	Total    int                       `json:"total"`
}

// ItemListResponse wraps a catalog listing
type ItemListResponse struct {
	Items []*application.ItemDTO `json:"items"`
	Total int                    `json:"total"`
}

// WarehouseListResponse wraps a warehouse listing
type WarehouseListResponse struct {
	Warehouses []*application.WarehouseDTO `json:"warehouses"`
	Total      int                         `json:"total"`
}

// UserListResponse wraps a user listing
type UserListResponse struct {
	Users []*application.UserDTO `json:"users"`
	Total int                    `json:"total"`
}

// ActivityListResponse wraps the recent activity feed
type ActivityListResponse struct {
	Activities []domain.ActivityRecord `json:"activities"`
	Total      int                     `json:"total"`
}
