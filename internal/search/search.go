package search

import (
	"context"

	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/repo"
)

// Index finds products by free text and is kept in sync by catalog writes.
type Index interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	Search(ctx context.Context, q string) ([]models.Product, error)
}

// DBIndex searches the products table directly; there is nothing to sync.
type DBIndex struct {
	Repo *repo.GormRepo
}

func (DBIndex) IndexProduct(context.Context, models.Product) error { return nil }

func (DBIndex) DeleteProduct(context.Context, uint) error { return nil }

func (i DBIndex) Search(ctx context.Context, q string) ([]models.Product, error) {
	return i.Repo.SearchProducts(ctx, q)
}
