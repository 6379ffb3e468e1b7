package domain

// MovementDirection labels a ledger movement
type MovementDirection string

const (
	DirectionIn  MovementDirection = "IN"
	DirectionOut MovementDirection = "OUT"
)

// StockMovement records one applied quantity change at one warehouse.
// Quantity is the amount actually moved after floor-clamping.
type StockMovement struct {
	ItemID      string            `json:"itemId"`
	WarehouseID string            `json:"warehouseId"`
	Quantity    int               `json:"quantity"`
	Direction   MovementDirection `json:"direction"`
}

// StockLedger applies completed transactions to inventory items. Stateless;
// the item map carries the state.
type StockLedger struct{}

// NewStockLedger creates a ledger
func NewStockLedger() *StockLedger {
	return &StockLedger{}
}

// Apply mutates the per-warehouse stock of the resolved items for every line
// of a COMPLETED transaction, exactly once per transaction.
//
// IMPORT credits the target; EXPORT and LIQUIDATION debit the source,
// floor-clamped at zero; TRANSFER debits the source and credits the target
// with the quantity actually deducted, so a clamped transfer conserves stock;
// ADJUSTMENT applies a signed delta at the target, floor-clamped.
//
// Referential integrity is checked over all lines before anything mutates,
// so a failure leaves every item untouched.
func (l *StockLedger) Apply(tx *Transaction, items map[string]*InventoryItem) ([]StockMovement, error) {
	if tx.Status != TxCompleted {
		return nil, ErrStockNotApplicable
	}
	if tx.StockApplied {
		return nil, ErrStockAlreadyApplied
	}

	for _, line := range tx.Items {
		if _, ok := items[line.ItemID]; !ok {
			return nil, ErrUnknownItem
		}
	}

	var movements []StockMovement
	for _, line := range tx.Items {
		item := items[line.ItemID]

		switch tx.Type {
		case TypeImport:
			if err := item.AddStock(tx.TargetWarehouseID, line.Quantity); err != nil {
				return nil, err
			}
			movements = append(movements, StockMovement{
				ItemID:      line.ItemID,
				WarehouseID: tx.TargetWarehouseID,
				Quantity:    line.Quantity,
				Direction:   DirectionIn,
			})

		case TypeExport, TypeLiquidation:
			deducted, err := item.RemoveStock(tx.SourceWarehouseID, line.Quantity)
			if err != nil {
				return nil, err
			}
			movements = append(movements, StockMovement{
				ItemID:      line.ItemID,
				WarehouseID: tx.SourceWarehouseID,
				Quantity:    deducted,
				Direction:   DirectionOut,
			})

		case TypeTransfer:
			deducted, err := item.RemoveStock(tx.SourceWarehouseID, line.Quantity)
			if err != nil {
				return nil, err
			}
			if err := item.AddStock(tx.TargetWarehouseID, deducted); err != nil {
				return nil, err
			}
			movements = append(movements,
				StockMovement{
					ItemID:      line.ItemID,
					WarehouseID: tx.SourceWarehouseID,
					Quantity:    deducted,
					Direction:   DirectionOut,
				},
				StockMovement{
					ItemID:      line.ItemID,
					WarehouseID: tx.TargetWarehouseID,
					Quantity:    deducted,
					Direction:   DirectionIn,
				},
			)

		case TypeAdjustment:
			applied := item.AdjustStock(tx.TargetWarehouseID, line.Quantity)
			direction := DirectionIn
			if applied < 0 {
				direction = DirectionOut
				applied = -applied
			}
			movements = append(movements, StockMovement{
				ItemID:      line.ItemID,
				WarehouseID: tx.TargetWarehouseID,
				Quantity:    applied,
				Direction:   direction,
			})

		default:
			return nil, ErrInvalidTransactionType
		}
	}

	tx.StockApplied = true
	return movements, nil
}
