package domain

// Action identifies a guarded state transition
type Action string

const (
	ActionTransactionSubmit  Action = "transaction.submit"
	ActionTransactionDecide  Action = "transaction.decide"
	ActionTransactionReceive Action = "transaction.receive"
	ActionRequestCreate      Action = "request.create"
	ActionRequestDecide      Action = "request.decide"
	ActionRequestShip        Action = "request.ship"
	ActionRequestComplete    Action = "request.complete"
)

// CanTransition decides whether the user may perform the action on the
// document. It is the single source of truth for role and warehouse-scope
// authorization and is consulted before every state transition.
func CanTransition(user *User, document any, action Action) bool {
	if user == nil || !user.Role.IsValid() {
		return false
	}
	if user.Role == RoleAdmin {
		return true
	}

	switch action {
	case ActionTransactionSubmit:
		tx, ok := document.(*Transaction)
		if !ok {
			return false
		}
		return canSubmitTransaction(user, tx)

	case ActionTransactionDecide:
		// admin-only, handled above
		return false

	case ActionTransactionReceive:
		tx, ok := document.(*Transaction)
		if !ok {
			return false
		}
		return user.Role == RoleKeeper && user.IsAssignedTo(tx.TargetWarehouseID)

	case ActionRequestCreate:
		req, ok := document.(*MaterialRequest)
		if !ok {
			return false
		}
		switch user.Role {
		case RoleEmployee:
			return true
		case RoleKeeper:
			return user.IsAssignedTo(req.SiteWarehouseID)
		default:
			return false
		}

	case ActionRequestDecide:
		return user.Role == RoleAccountant

	case ActionRequestShip:
		req, ok := document.(*MaterialRequest)
		if !ok {
			return false
		}
		return user.Role == RoleKeeper && user.IsAssignedTo(req.SourceWarehouseID)

	case ActionRequestComplete:
		req, ok := document.(*MaterialRequest)
		if !ok {
			return false
		}
		return user.Role == RoleKeeper && user.IsAssignedTo(req.SiteWarehouseID)

	default:
		return false
	}
}

// canSubmitTransaction scopes a keeper's submissions to their assigned
// warehouse: the keeper-side warehouse is the target for IMPORT and
// ADJUSTMENT and the source for EXPORT, TRANSFER and LIQUIDATION.
func canSubmitTransaction(user *User, tx *Transaction) bool {
	if user.Role != RoleKeeper {
		return false
	}

	switch tx.Type {
	case TypeImport, TypeAdjustment:
		return user.IsAssignedTo(tx.TargetWarehouseID)
	case TypeExport, TypeTransfer, TypeLiquidation:
		return user.IsAssignedTo(tx.SourceWarehouseID)
	default:
		return false
	}
}

// KeeperWarehouseFor returns which side of a transaction a keeper's
// assignment is forced onto when they submit
func KeeperWarehouseFor(txType TransactionType) (source, target bool) {
	switch txType {
	case TypeImport, TypeAdjustment:
		return false, true
	case TypeExport, TypeTransfer, TypeLiquidation:
		return true, false
	default:
		return false, false
	}
}
