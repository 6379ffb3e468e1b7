package domain

import "errors"

// Errors shared across the domain aggregates
var (
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidStatus          = errors.New("invalid status transition")
	ErrNoItems                = errors.New("document must have at least one item")
	ErrInvalidQuantity        = errors.New("quantity must be positive")
	ErrMissingWarehouse       = errors.New("required warehouse reference is missing")
	ErrUnexpectedWarehouse    = errors.New("warehouse reference not allowed for this type")
	ErrNoItemsSelected        = errors.New("no valid items selected")
	ErrStockNotApplicable     = errors.New("transaction is not eligible for ledger application")
	ErrStockAlreadyApplied    = errors.New("ledger already applied for this transaction")
	ErrUnknownItem            = errors.New("referenced item does not exist")
	ErrUnknownWarehouse       = errors.New("referenced warehouse does not exist")
	ErrWarehouseArchived      = errors.New("warehouse is archived")
	ErrWarehouseHasStock      = errors.New("warehouse still holds stock")
	ErrSourceNotSet           = errors.New("source warehouse must be set before approval")
	ErrInvalidRole            = errors.New("invalid user role")
	ErrInvalidWarehouseType   = errors.New("invalid warehouse type")
)
