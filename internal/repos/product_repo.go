package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"fakestore-ingestor/internal/apperr"
	"fakestore-ingestor/internal/domain"
)

const selectProducts = `
  SELECT
    p.id, p.title, p.price, p.description, p.category, p.image,
    r.id AS rating_id, r.rate AS rating_rate, r.count AS rating_count
  FROM products p
  LEFT JOIN ratings r ON r.product_id = p.id`

// productRow is one products row with its optional rating joined in.
type productRow struct {
	domain.Product
	RatingID    sql.NullInt64   `db:"rating_id"`
	RatingRate  sql.NullFloat64 `db:"rating_rate"`
	RatingCount sql.NullInt64   `db:"rating_count"`
}

func (r productRow) toDomain() domain.Product {
	p := r.Product
	if r.RatingID.Valid {
		p.Rating = &domain.Rating{
			ID:        r.RatingID.Int64,
			Rate:      r.RatingRate.Float64,
			Count:     int(r.RatingCount.Int64),
			ProductID: p.ID,
		}
	}
	return p
}

// ProductRepo serves read-only queries; nothing it returns is tracked.
type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

// NewSession starts a unit of work. Use one per request.
func (r *ProductRepo) NewSession() *Session { return newSession(r.db) }

// ListAll returns every product with its rating, ordered by id.
func (r *ProductRepo) ListAll(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, selectProducts+` ORDER BY p.id`); err != nil {
		return nil, apperr.Persistence("list products", err).WithOp("repos.ProductRepo.ListAll")
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Get returns an apperr.KindNotFound error when no product has the id.
func (r *ProductRepo) Get(ctx context.Context, id int) (domain.Product, error) {
	row, err := getProductRow(ctx, r.db, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, apperr.NotFound("product not found")
	}
	if err != nil {
		return domain.Product{}, apperr.Persistence("get product", err).WithOp("repos.ProductRepo.Get")
	}
	return row.toDomain(), nil
}

func getProductRow(ctx context.Context, db *sqlx.DB, id int) (productRow, error) {
	var row productRow
	err := db.GetContext(ctx, &row, db.Rebind(selectProducts+` WHERE p.id = ?`), id)
	return row, err
}
