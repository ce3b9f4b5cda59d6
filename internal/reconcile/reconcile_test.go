package reconcile

import (
	"sort"
	"testing"

	"storefront/internal/model"
)

func item(id string, qty int) model.CartItem {
	return model.CartItem{ProductID: id, Quantity: qty}
}

func TestDiffCart(t *testing.T) {
	tests := []struct {
		name       string
		current    []model.CartItem
		desired    []model.CartItem
		wantAdd    []string
		wantRemove []string
		wantUpdate map[string]int // productID → new quantity
	}{
		{
			name:    "no changes",
			current: []model.CartItem{item("jeans-1", 2)},
			desired: []model.CartItem{item("jeans-1", 2)},
		},
		{
			name:    "add to empty cart",
			desired: []model.CartItem{item("jeans-1", 1)},
			wantAdd: []string{"jeans-1"},
		},
		{
			name:       "remove everything",
			current:    []model.CartItem{item("jeans-1", 1), item("tv-3", 1)},
			wantRemove: []string{"jeans-1", "tv-3"},
		},
		{
			name:       "quantity change",
			current:    []model.CartItem{item("jeans-1", 1)},
			desired:    []model.CartItem{item("jeans-1", 3)},
			wantUpdate: map[string]int{"jeans-1": 3},
		},
		{
			name:       "mixed operations",
			current:    []model.CartItem{item("jeans-1", 1), item("tshirt-2", 2)},
			desired:    []model.CartItem{item("tshirt-2", 5), item("sofa-9", 1)},
			wantAdd:    []string{"sofa-9"},
			wantRemove: []string{"jeans-1"},
			wantUpdate: map[string]int{"tshirt-2": 5},
		},
		{
			name:       "zero quantity in desired acts as removal",
			current:    []model.CartItem{item("jeans-1", 1)},
			desired:    []model.CartItem{item("jeans-1", 0)},
			wantRemove: []string{"jeans-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := DiffCart(tt.current, tt.desired)

			gotAdd := make([]string, 0, len(diff.ToAdd))
			for _, a := range diff.ToAdd {
				gotAdd = append(gotAdd, a.ProductID)
			}
			assertIDs(t, "ToAdd", gotAdd, tt.wantAdd)
			assertIDs(t, "ToRemove", diff.ToRemove, tt.wantRemove)

			if len(diff.ToUpdate) != len(tt.wantUpdate) {
				t.Fatalf("ToUpdate length = %d, want %d", len(diff.ToUpdate), len(tt.wantUpdate))
			}
			for _, u := range diff.ToUpdate {
				want, ok := tt.wantUpdate[u.ProductID]
				if !ok {
					t.Errorf("unexpected update for %s", u.ProductID)
					continue
				}
				if u.NewQuantity != want {
					t.Errorf("update %s: NewQuantity = %d, want %d", u.ProductID, u.NewQuantity, want)
				}
			}

			wantEmpty := len(tt.wantAdd) == 0 && len(tt.wantRemove) == 0 && len(tt.wantUpdate) == 0
			if diff.IsEmpty() != wantEmpty {
				t.Errorf("IsEmpty() = %v, want %v", diff.IsEmpty(), wantEmpty)
			}
		})
	}
}

func assertIDs(t *testing.T, label string, got, want []string) {
	t.Helper()
	sort.Strings(got)
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("%s = %v, want %v", label, got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("%s = %v, want %v", label, got, want)
			return
		}
	}
}
