package services

import (
	"context"

	"fakestore-ingestor/internal/domain"
	"fakestore-ingestor/internal/repos"
)

type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.Prods.ListAll(ctx)
}

// GetProduct returns an apperr.KindNotFound error for unknown ids.
func (s *CatalogService) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	return s.Prods.Get(ctx, id)
}
