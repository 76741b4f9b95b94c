package inventory

// Post validates spec, builds the movement and applies its delta to item.
// Either both happen or neither does; callers persist the two together.
// Reversals are allowed on inactive items; the stock floor still applies.
func Post(item *InventoryItem, spec MovementSpec) (*InventoryMovement, error) {
	if !item.IsActive && spec.Type != MovementRevert {
		return nil, NewInactiveItemError(item)
	}
	movement, err := NewInventoryMovement(item, spec)
	if err != nil {
		return nil, err
	}
	if err := item.applyDelta(movement.Quantity); err != nil {
		return nil, err
	}
	return movement, nil
}
