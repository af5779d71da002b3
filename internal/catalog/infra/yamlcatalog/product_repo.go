// Package yamlcatalog serves the storefront catalog from a YAML document.
package yamlcatalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/dwikikusuma/brewhome/internal/catalog/app"
	"github.com/dwikikusuma/brewhome/internal/catalog/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type document struct {
	Products []productRow `yaml:"products"`
}

type productRow struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Price    string `yaml:"price"`
	Image    string `yaml:"image"`
	Category string `yaml:"category"`
}

type ProductRepo struct {
	products []domain.Product
	byID     map[string]int
}

// Default returns the catalog embedded in the binary.
func Default() (*ProductRepo, error) {
	return Load(bytes.NewReader(defaultCatalog))
}

func Load(r io.Reader) (*ProductRepo, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	repo := &ProductRepo{
		products: make([]domain.Product, 0, len(doc.Products)),
		byID:     make(map[string]int, len(doc.Products)),
	}
	for i, row := range doc.Products {
		id := strings.TrimSpace(row.ID)
		if id == "" {
			return nil, fmt.Errorf("product %d: id is required", i)
		}
		if _, dup := repo.byID[id]; dup {
			return nil, fmt.Errorf("product %s: duplicate id", id)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(row.Price))
		if err != nil {
			return nil, fmt.Errorf("product %s: invalid price %q: %w", id, row.Price, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("product %s: price cannot be negative", id)
		}

		repo.byID[id] = len(repo.products)
		repo.products = append(repo.products, domain.Product{
			ID:       id,
			Title:    row.Title,
			Price:    price,
			Image:    row.Image,
			Category: strings.ToLower(strings.TrimSpace(row.Category)),
		})
	}
	return repo, nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	idx, ok := r.byID[id]
	if !ok {
		return domain.Product{}, app.ErrNotFound
	}
	return r.products[idx], nil
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(r.products))
	copy(out, r.products)
	return out, nil
}
