package services

import (
	"context"

	"fakestore-ingestor/internal/domain"
	"fakestore-ingestor/internal/fakestore"
	"fakestore-ingestor/internal/repos"
)

// CatalogSource yields the remote catalog in source order.
type CatalogSource interface {
	FetchProducts(ctx context.Context) ([]fakestore.ProductDTO, error)
}

type ImportService struct {
	Source CatalogSource
	Prods  *repos.ProductRepo
}

func NewImportService(src CatalogSource, prods *repos.ProductRepo) *ImportService {
	return &ImportService{Source: src, Prods: prods}
}

// Import fetches the catalog and upserts the first limit products (all of
// them when limit <= 0) in one commit. A fetch failure returns before
// anything is staged.
func (s *ImportService) Import(ctx context.Context, limit int) (domain.ImportResult, error) {
	items, err := s.Source.FetchProducts(ctx)
	if err != nil {
		return domain.ImportResult{}, err
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	sess := s.Prods.NewSession()
	for _, dto := range items {
		existing, err := sess.FindByID(ctx, dto.ID)
		if err != nil {
			sess.Discard()
			return domain.ImportResult{}, err
		}
		if existing == nil {
			if err := sess.Add(newProduct(dto)); err != nil {
				sess.Discard()
				return domain.ImportResult{}, err
			}
			continue
		}
		apply(existing, dto)
	}

	saved, err := sess.Commit(ctx)
	if err != nil {
		return domain.ImportResult{}, err
	}
	return domain.ImportResult{Imported: len(items), Saved: saved}, nil
}

func newProduct(dto fakestore.ProductDTO) *domain.Product {
	p := &domain.Product{
		ID:          dto.ID,
		Title:       dto.Title,
		Price:       dto.Price,
		Description: dto.Description,
		Category:    dto.Category,
		Image:       dto.Image,
	}
	if dto.Rating != nil {
		p.Rating = &domain.Rating{Rate: dto.Rating.Rate, Count: dto.Rating.Count, ProductID: dto.ID}
	}
	return p
}

// apply overwrites a tracked product in place. Without rating data in the
// DTO the stored rating is kept.
func apply(p *domain.Product, dto fakestore.ProductDTO) {
	p.Title = dto.Title
	p.Price = dto.Price
	p.Description = dto.Description
	p.Category = dto.Category
	p.Image = dto.Image

	if dto.Rating == nil {
		return
	}
	if p.Rating == nil {
		p.Rating = &domain.Rating{ProductID: p.ID}
	}
	p.Rating.Rate = dto.Rating.Rate
	p.Rating.Count = dto.Rating.Count
}
