package catalog

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/model"
)

func TestGenerationIsDeterministic(t *testing.T) {
	a := NewProvider(nil).List()
	b := NewProvider(nil).List()

	if len(a) != len(b) {
		t.Fatalf("catalog sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("product %d differs between generations: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestCatalogShape(t *testing.T) {
	p := NewProvider(nil)

	wantCounts := map[string]int{"jeans": 50, "tshirt": 50, "tv": 40, "sofa": 40}
	total := 0
	for category, want := range wantCounts {
		got := len(p.ByCategory(category))
		if got != want {
			t.Errorf("category %s: %d products, want %d", category, got, want)
		}
		total += want
	}
	if got := len(p.List()); got != total {
		t.Errorf("List() = %d products, want %d", got, total)
	}
}

func TestPriceBands(t *testing.T) {
	bands := map[string][2]model.Cents{
		"jeans":  {50_00, 150_00},
		"tshirt": {20_00, 60_00},
		"tv":     {300_00, 1100_00},
		"sofa":   {500_00, 2000_00},
	}

	for _, prod := range NewProvider(nil).List() {
		band, ok := bands[prod.Category]
		if !ok {
			t.Fatalf("unexpected category %q", prod.Category)
		}
		if prod.Price < band[0] || prod.Price >= band[1] {
			t.Errorf("%s: price %s outside band [%s, %s)",
				prod.ID, prod.Price, band[0], band[1])
		}
		if !prod.InStock {
			t.Errorf("%s: generated products are always in stock", prod.ID)
		}
		if prod.OriginalPrice > 0 && prod.OriginalPrice <= prod.Price {
			t.Errorf("%s: originalPrice %s not above price %s",
				prod.ID, prod.OriginalPrice, prod.Price)
		}
	}
}

func TestGetResolvesGeneratedIDs(t *testing.T) {
	p := NewProvider(nil)

	prod, err := p.Get(context.Background(), "jeans-1")
	if err != nil {
		t.Fatalf("Get(jeans-1) error = %v", err)
	}
	if prod.Name != "Premium Denim Jeans 1" || prod.Category != "jeans" {
		t.Errorf("product = %+v", prod)
	}
	if !prod.IsNew {
		t.Error("jeans-1 should be flagged as a new arrival")
	}
}

type fakeRemote struct {
	calls   int
	product *model.Product
	err     error
}

func (f *fakeRemote) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.product, nil
}

func TestGetFallsBackToRemote(t *testing.T) {
	remote := &fakeRemote{product: &model.Product{ID: "custom-1", Name: "Admin Special", Price: 999}}
	p := NewProvider(remote)
	ctx := context.Background()

	prod, err := p.Get(ctx, "custom-1")
	if err != nil {
		t.Fatalf("Get(custom-1) error = %v", err)
	}
	if prod.Name != "Admin Special" {
		t.Errorf("product = %+v", prod)
	}

	// Second lookup serves from cache.
	if _, err := p.Get(ctx, "custom-1"); err != nil {
		t.Fatalf("cached Get error = %v", err)
	}
	if remote.calls != 1 {
		t.Errorf("remote calls = %d, want 1", remote.calls)
	}
}

func TestGetUnknownWithoutRemote(t *testing.T) {
	_, err := NewProvider(nil).Get(context.Background(), "nope-1")
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestSearch(t *testing.T) {
	p := NewProvider(nil)

	if got := len(p.Search("denim")); got != 50 {
		t.Errorf("Search(denim) = %d results, want 50", got)
	}
	if got := len(p.Search("DENIM")); got != 50 {
		t.Errorf("search must be case-insensitive, got %d", got)
	}
	if got := len(p.Search("")); got != len(p.List()) {
		t.Errorf("empty query should return the full catalog, got %d", got)
	}
	if got := len(p.Search("no-such-thing")); got != 0 {
		t.Errorf("Search(no-such-thing) = %d results, want 0", got)
	}
}

func TestFeaturedMixesCategories(t *testing.T) {
	products := NewProvider(nil).Featured(8)
	if len(products) != 8 {
		t.Fatalf("Featured(8) = %d products", len(products))
	}

	perCategory := map[string]int{}
	for _, prod := range products {
		perCategory[prod.Category]++
	}
	for _, category := range []string{"jeans", "tshirt", "tv", "sofa"} {
		if perCategory[category] != 2 {
			t.Errorf("category %s: %d featured, want 2", category, perCategory[category])
		}
	}
}
