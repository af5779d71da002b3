package app

import (
	"context"
	"errors"
	"strings"

	"github.com/dwikikusuma/brewhome/internal/catalog/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// FilterAll disables category filtering.
const FilterAll = "all"

type Service struct {
	repo ProductRepo
}

func NewService(repo ProductRepo) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, id)
}

// ListProducts returns the products of the given category; an empty filter or
// FilterAll returns the whole catalog.
func (s *Service) ListProducts(ctx context.Context, filter string) ([]domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" || filter == FilterAll {
		return products, nil
	}

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.EqualFold(p.Category, filter) {
			out = append(out, p)
		}
	}
	return out, nil
}
