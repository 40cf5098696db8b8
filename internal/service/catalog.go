package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Skotchmaster/shop_api/internal/events"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/search"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

type CatalogService struct {
	Repo   *repo.GormRepo
	Index  search.Index
	Events events.Publisher
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_product")

	if req.Name == nil || req.Price == nil {
		return nil, fmt.Errorf("name and price required: %w", ErrValidation)
	}
	prod := &models.Product{Name: *req.Name, Price: *req.Price}
	if req.Description != nil {
		prod.Description = *req.Description
	}

	if err := s.Repo.CreateProduct(ctx, prod); err != nil {
		return nil, err
	}

	s.index(ctx, l, *prod)
	publish(ctx, l, s.Events, events.TopicProduct, idKey(prod.ID), events.Event{
		Type:      events.ProductCreated,
		ProductID: prod.ID,
		Name:      prod.Name,
		Price:     prod.Price,
	})
	return prod, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return prod, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

func (s *CatalogService) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uint) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.patch_product")

	if req.Empty() {
		return s.GetProduct(ctx, id)
	}

	prod, err := s.Repo.PatchProduct(ctx, req, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	s.index(ctx, l, *prod)
	publish(ctx, l, s.Events, events.TopicProduct, idKey(prod.ID), events.Event{
		Type:      events.ProductUpdated,
		ProductID: prod.ID,
		Name:      prod.Name,
		Price:     prod.Price,
	})
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	l := logging.FromContext(ctx).With("svc", "catalog.delete_product")

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return err
	}

	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			l.Error("search_delete_failed", "product_id", id, "error", err)
		}
	}
	publish(ctx, l, s.Events, events.TopicProduct, idKey(id), events.Event{
		Type:      events.ProductDeleted,
		ProductID: id,
	})
	return nil
}

func (s *CatalogService) SearchProducts(ctx context.Context, q string) ([]models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("empty query: %w", ErrValidation)
	}
	if s.Index == nil {
		return s.Repo.SearchProducts(ctx, q)
	}
	return s.Index.Search(ctx, q)
}

func (s *CatalogService) index(ctx context.Context, l *slog.Logger, prod models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, prod); err != nil {
		l.Error("search_index_failed", "product_id", prod.ID, "error", err)
	}
}
