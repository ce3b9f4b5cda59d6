// Package catalog serves the built-in product list. Products are generated
// once at construction from fixed per-category templates and never mutated;
// admin product management goes through the backend, not this package.
package catalog

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"storefront/internal/model"
)

// Remote resolves product IDs the generated catalog does not carry,
// e.g. admin-created products that live only in the backend.
type Remote interface {
	GetProduct(ctx context.Context, id string) (*model.Product, error)
}

// generatorSeed fixes the PRNG so every process generates the identical
// catalog. Prices must be stable across restarts or carts restored from the
// backend would disagree with product pages.
const generatorSeed = 0x5708

// categorySpec is one category's generation template.
type categorySpec struct {
	category    string
	nameFormat  string
	count       int
	priceBase   model.Cents // lower bound, inclusive
	priceSpread int64       // random dollars added on top
	saleBase    model.Cents // originalPrice lower bound for discounted items
	saleSpread  int64
	saleOdds    float64 // probability a product carries an originalPrice
	newCutoff   int     // indices <= cutoff are flagged as new arrivals
}

var categorySpecs = []categorySpec{
	{"jeans", "Premium Denim Jeans %d", 50, 50_00, 100, 150_00, 50, 0.3, 8},
	{"tshirt", "Classic Cotton T-Shirt %d", 50, 20_00, 40, 60_00, 20, 0.3, 6},
	{"tv", `Smart TV %d" Display`, 40, 300_00, 800, 1100_00, 300, 0.4, 5},
	{"sofa", "Luxury Sofa Collection %d", 40, 500_00, 1500, 2000_00, 500, 0.4, 5},
}

var categoryDescriptions = map[string]string{
	"jeans":  "High-quality denim jeans with perfect fit and comfort",
	"tshirt": "Comfortable cotton t-shirt for everyday wear",
	"tv":     "High-definition smart television with modern features",
	"sofa":   "Comfortable and stylish sofa for your living space",
}

// Provider is the read-only catalog. Safe for concurrent use; all state is
// immutable after construction.
type Provider struct {
	remote   Remote
	products []model.Product
	byID     map[string]*model.Product

	mu          sync.Mutex
	remoteCache map[string]*model.Product
}

// NewProvider generates the catalog. remote may be nil, in which case Get
// only resolves generated IDs.
func NewProvider(remote Remote) *Provider {
	products := generate()

	byID := make(map[string]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	return &Provider{
		remote:      remote,
		products:    products,
		byID:        byID,
		remoteCache: make(map[string]*model.Product),
	}
}

func generate() []model.Product {
	rng := rand.New(rand.NewSource(generatorSeed))

	var products []model.Product
	for _, spec := range categorySpecs {
		for i := 1; i <= spec.count; i++ {
			p := model.Product{
				ID:          fmt.Sprintf("%s-%d", spec.category, i),
				Name:        fmt.Sprintf(spec.nameFormat, i),
				Price:       spec.priceBase + model.Cents(rng.Int63n(spec.priceSpread))*100,
				Image:       fmt.Sprintf("/ecommerce products/%s/%d.jpg", spec.category, i),
				Category:    spec.category,
				Description: categoryDescriptions[spec.category],
				IsNew:       i <= spec.newCutoff,
				InStock:     true,
			}
			if rng.Float64() < spec.saleOdds {
				p.OriginalPrice = spec.saleBase + model.Cents(rng.Int63n(spec.saleSpread))*100
			}
			products = append(products, p)
		}
	}
	return products
}

// List returns the full generated catalog in category order.
func (p *Provider) List() []model.Product {
	out := make([]model.Product, len(p.products))
	copy(out, p.products)
	return out
}

// Get resolves a product by ID. Generated products resolve locally; unknown
// IDs fall back to the backend catalog (admin-created products). Remote hits
// are cached for the life of the process.
func (p *Provider) Get(ctx context.Context, id string) (*model.Product, error) {
	if prod, ok := p.byID[id]; ok {
		cp := *prod
		return &cp, nil
	}

	p.mu.Lock()
	cached, ok := p.remoteCache[id]
	p.mu.Unlock()
	if ok {
		cp := *cached
		return &cp, nil
	}

	if p.remote == nil {
		return nil, model.NewNotFoundError("product")
	}

	prod, err := p.remote.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.remoteCache[id] = prod
	p.mu.Unlock()

	cp := *prod
	return &cp, nil
}

// Search returns products whose name, category or description contains the
// query, case-insensitive. An empty query returns the full catalog.
func (p *Provider) Search(query string) []model.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return p.List()
	}

	var out []model.Product
	for _, prod := range p.products {
		if strings.Contains(strings.ToLower(prod.Name), query) ||
			strings.Contains(strings.ToLower(prod.Category), query) ||
			strings.Contains(strings.ToLower(prod.Description), query) {
			out = append(out, prod)
		}
	}
	return out
}

// ByCategory returns all products in the given category.
func (p *Provider) ByCategory(category string) []model.Product {
	var out []model.Product
	for _, prod := range p.products {
		if prod.Category == category {
			out = append(out, prod)
		}
	}
	return out
}

// Featured returns an even mix across categories, limit products total,
// taking the leading (new-arrival) products of each category.
func (p *Provider) Featured(limit int) []model.Product {
	if limit <= 0 {
		limit = 8
	}
	perCategory := limit / len(categorySpecs)
	if perCategory < 1 {
		perCategory = 1
	}

	var out []model.Product
	for _, spec := range categorySpecs {
		taken := 0
		for _, prod := range p.products {
			if prod.Category != spec.category {
				continue
			}
			out = append(out, prod)
			taken++
			if taken >= perCategory || len(out) >= limit {
				break
			}
		}
		if len(out) >= limit {
			break
		}
	}
	return out
}

// NewArrivals returns products flagged as new.
func (p *Provider) NewArrivals() []model.Product {
	var out []model.Product
	for _, prod := range p.products {
		if prod.IsNew {
			out = append(out, prod)
		}
	}
	return out
}

// OnSale returns discounted products, sorted by discount depth descending.
func (p *Provider) OnSale() []model.Product {
	var out []model.Product
	for _, prod := range p.products {
		if prod.OriginalPrice > 0 {
			out = append(out, prod)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OriginalPrice-out[i].Price > out[j].OriginalPrice-out[j].Price
	})
	return out
}

// Categories returns the catalog's category names in generation order.
func (p *Provider) Categories() []string {
	out := make([]string, len(categorySpecs))
	for i, spec := range categorySpecs {
		out[i] = spec.category
	}
	return out
}
