// Package reconcile computes the delta between the remote cart and the
// locally desired cart, enabling full-replacement PUT semantics: the caller
// sends the complete desired state, and only the necessary per-item backend
// mutations are executed.
package reconcile

import "storefront/internal/model"

// CartDiff describes the mutations needed to reconcile cart lines.
// Operations should be applied in order: Remove → Update → Add
// to prevent conflicts (e.g., updating a removed line).
type CartDiff struct {
	ToAdd    []model.CartItem // Products in desired but not current
	ToRemove []string         // Product IDs in current but not desired
	ToUpdate []QuantityChange // Products in both with different quantities
}

// QuantityChange specifies a quantity change for an existing cart line.
type QuantityChange struct {
	ProductID   string
	OldQuantity int // Current quantity (informational)
	NewQuantity int // Desired quantity
}

// IsEmpty returns true if no cart changes are needed.
func (d *CartDiff) IsEmpty() bool {
	return len(d.ToAdd) == 0 && len(d.ToRemove) == 0 && len(d.ToUpdate) == 0
}

// DiffCart computes the delta between current and desired cart lines.
// Lines match by ProductID; quantities <= 0 in desired are treated as
// removals, mirroring the store's update semantics.
//
// Algorithm:
//  1. Build lookup maps for O(1) access
//  2. For each desired line: exists with different qty → update; missing → add
//  3. For each current line: not in desired → remove
func DiffCart(current, desired []model.CartItem) *CartDiff {
	diff := &CartDiff{}

	currentByID := make(map[string]model.CartItem, len(current))
	for _, item := range current {
		currentByID[item.ProductID] = item
	}

	desiredByID := make(map[string]model.CartItem, len(desired))
	for _, item := range desired {
		if item.Quantity <= 0 {
			continue // zero-quantity lines never materialize
		}
		desiredByID[item.ProductID] = item
	}

	for id, want := range desiredByID {
		if have, exists := currentByID[id]; exists {
			if have.Quantity != want.Quantity {
				diff.ToUpdate = append(diff.ToUpdate, QuantityChange{
					ProductID:   id,
					OldQuantity: have.Quantity,
					NewQuantity: want.Quantity,
				})
			}
			// Same quantity = no change needed
		} else {
			diff.ToAdd = append(diff.ToAdd, want)
		}
	}

	for id := range currentByID {
		if _, exists := desiredByID[id]; !exists {
			diff.ToRemove = append(diff.ToRemove, id)
		}
	}

	return diff
}
