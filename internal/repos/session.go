package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"fakestore-ingestor/internal/apperr"
	"fakestore-ingestor/internal/domain"
)

const (
	insertProduct = `INSERT INTO products(id, title, price, description, category, image) VALUES (?, ?, ?, ?, ?, ?)`
	updateProduct = `UPDATE products SET title = ?, price = ?, description = ?, category = ?, image = ? WHERE id = ?`
	insertRating  = `INSERT INTO ratings(rate, count, product_id) VALUES (?, ?, ?) RETURNING id`
	updateRating  = `UPDATE ratings SET rate = ?, count = ? WHERE id = ?`
)

// Session is a unit of work over products and their ratings. Products it
// hands out are tracked: edits made to them in place are written by Commit,
// together with products staged by Add, in a single transaction.
//
// A Session is not safe for concurrent use.
type Session struct {
	db      *sqlx.DB
	entries map[int]*entry
	order   []int // tracking order, so commits are deterministic
}

type entry struct {
	product *domain.Product
	stored  *domain.Product // last persisted state, nil while staged for insert
}

func newSession(db *sqlx.DB) *Session {
	return &Session{db: db, entries: map[int]*entry{}}
}

// FindByID returns the tracked product with its rating, or nil when the id
// is neither tracked nor stored.
func (s *Session) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	if e, ok := s.entries[id]; ok {
		return e.product, nil
	}
	row, err := getProductRow(ctx, s.db, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Persistence("load product", err).WithOp("repos.Session.FindByID")
	}
	p := row.toDomain()
	stored := snapshot(p)
	s.track(&p, &stored)
	return &p, nil
}

// Add stages p, and its rating if any, for insertion.
func (s *Session) Add(p *domain.Product) error {
	if _, ok := s.entries[p.ID]; ok {
		return apperr.Persistence(fmt.Sprintf("product %d is already tracked", p.ID), nil).WithOp("repos.Session.Add")
	}
	s.track(p, nil)
	return nil
}

// Pending reports how many products the session tracks.
func (s *Session) Pending() int { return len(s.order) }

// Discard forgets everything tracked or staged.
func (s *Session) Discard() {
	s.entries = map[int]*entry{}
	s.order = nil
}

// Commit writes staged inserts and changed rows in one transaction and
// returns the number of rows written. Rows whose values equal the stored ones
// are not written and not counted. On failure nothing is persisted and the
// session is discarded.
func (s *Session) Commit(ctx context.Context) (int64, error) {
	const op = "repos.Session.Commit"

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.Discard()
		return 0, apperr.Persistence("begin transaction", err).WithOp(op)
	}
	defer func() { _ = tx.Rollback() }()

	var affected int64
	for _, id := range s.order {
		n, err := flush(ctx, tx, s.entries[id])
		if err != nil {
			s.Discard()
			return 0, apperr.Persistence(fmt.Sprintf("save product %d", id), err).WithOp(op)
		}
		affected += n
	}

	if err := tx.Commit(); err != nil {
		s.Discard()
		return 0, apperr.Persistence("commit transaction", err).WithOp(op)
	}
	for _, e := range s.entries {
		stored := snapshot(*e.product)
		e.stored = &stored
	}
	return affected, nil
}

func (s *Session) track(p *domain.Product, stored *domain.Product) {
	s.entries[p.ID] = &entry{product: p, stored: stored}
	s.order = append(s.order, p.ID)
}

func flush(ctx context.Context, tx *sqlx.Tx, e *entry) (int64, error) {
	p := e.product
	var n int64

	switch {
	case e.stored == nil:
		res, err := tx.ExecContext(ctx, tx.Rebind(insertProduct), p.ID, p.Title, p.Price, p.Description, p.Category, p.Image)
		if err != nil {
			return 0, err
		}
		c, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		n += c
	case productChanged(*e.stored, *p):
		res, err := tx.ExecContext(ctx, tx.Rebind(updateProduct), p.Title, p.Price, p.Description, p.Category, p.Image, p.ID)
		if err != nil {
			return 0, err
		}
		c, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		n += c
	}

	// A rating removed from a tracked product stays stored.
	if p.Rating == nil {
		return n, nil
	}
	p.Rating.ProductID = p.ID

	var storedRating *domain.Rating
	if e.stored != nil {
		storedRating = e.stored.Rating
	}
	switch {
	case storedRating == nil:
		if err := tx.QueryRowxContext(ctx, tx.Rebind(insertRating), p.Rating.Rate, p.Rating.Count, p.ID).Scan(&p.Rating.ID); err != nil {
			return 0, err
		}
		n++
	case ratingChanged(*storedRating, *p.Rating):
		// the stored row is reused even if the caller swapped the struct
		p.Rating.ID = storedRating.ID
		res, err := tx.ExecContext(ctx, tx.Rebind(updateRating), p.Rating.Rate, p.Rating.Count, p.Rating.ID)
		if err != nil {
			return 0, err
		}
		c, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		n += c
	default:
		p.Rating.ID = storedRating.ID
	}
	return n, nil
}

func productChanged(a, b domain.Product) bool {
	return a.Title != b.Title ||
		!a.Price.Equal(b.Price) ||
		a.Description != b.Description ||
		a.Category != b.Category ||
		a.Image != b.Image
}

func ratingChanged(a, b domain.Rating) bool {
	return a.Rate != b.Rate || a.Count != b.Count
}

func snapshot(p domain.Product) domain.Product {
	if p.Rating != nil {
		r := *p.Rating
		p.Rating = &r
	}
	return p
}
