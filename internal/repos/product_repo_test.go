package repos_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"fakestore-ingestor/internal/apperr"
	"fakestore-ingestor/internal/domain"
	"fakestore-ingestor/internal/repos"
)

func TestOpenDBAppliesMigrations(t *testing.T) {
	db, err := repos.OpenDB(repos.DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	var tables []string
	require.NoError(t, db.Select(&tables, `SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('products','ratings') ORDER BY name`))
	require.Equal(t, []string{"products", "ratings"}, tables)

	var fk int
	require.NoError(t, db.Get(&fk, `PRAGMA foreign_keys`))
	require.Equal(t, 1, fk)
}

func TestOpenDBRejectsUnknownDriver(t *testing.T) {
	_, err := repos.OpenDB("mysql", "root@/store")
	require.Error(t, err)
}

func TestListAllAndGet(t *testing.T) {
	db, err := repos.OpenDB(repos.DriverSQLite, ":memory:")
	require.NoError(t, err)
	defer db.Close()
	repo := repos.NewProductRepo(db)
	ctx := context.Background()

	empty, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)

	sess := repo.NewSession()
	for _, id := range []int{3, 1, 2} {
		p := &domain.Product{ID: id, Title: "t", Price: decimal.NewFromInt(int64(id))}
		if id != 2 {
			p.Rating = &domain.Rating{Rate: float64(id), Count: id}
		}
		require.NoError(t, sess.Add(p))
	}
	n, err := sess.Commit(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 5, n)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, []int{1, 2, 3}, []int{all[0].ID, all[1].ID, all[2].ID})
	require.NotNil(t, all[0].Rating)
	require.Nil(t, all[1].Rating)
	require.Equal(t, 3, all[2].Rating.Count)

	_, err = repo.Get(ctx, 99)
	require.True(t, apperr.Is(err, apperr.KindNotFound), err)

	p, err := repo.Get(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, "3", p.Price.String())
}
