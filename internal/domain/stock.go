package domain

// CreationStockDelta is the signed stock change caused by recording a new entry.
// Sales remove units whatever tier they are priced at; restocks add them.
func CreationStockDelta(action Action, quantity int64) int64 {
	switch action {
	case ActionIncoming:
		return -quantity
	case ActionOutgoing:
		return quantity
	}
	return 0
}

// UpdateStockDelta is the signed stock change caused by editing the quantity of
// an existing entry whose action stays the same.
func UpdateStockDelta(action Action, oldQuantity, newQuantity int64) int64 {
	differential := oldQuantity - newQuantity
	if differential < 0 {
		differential = -differential
	}

	switch action {
	case ActionIncoming:
		if oldQuantity > newQuantity {
			return differential
		}
		if oldQuantity < newQuantity {
			return -differential
		}
	case ActionOutgoing:
		if oldQuantity > newQuantity {
			return -differential
		}
		if oldQuantity < newQuantity {
			return differential
		}
	}
	return 0
}

// ReversalStockDelta undoes the stock effect an entry had when it was committed.
func ReversalStockDelta(e *LedgerEntry) int64 {
	return -CreationStockDelta(e.Action, e.Quantity)
}
