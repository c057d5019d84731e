package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"

	"github.com/totegamma/chitfund"
	"github.com/totegamma/chitfund/downline"
	"github.com/totegamma/chitfund/internal/domain"
	"github.com/totegamma/chitfund/internal/infra/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("chitfund"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		terminateCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = container.Terminate(terminateCtx)
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.NewPostgres(dsn)
	require.NoError(t, err)
	require.NoError(t, database.MigratePostgres(db))
	return db
}

func ptr(s string) *string { return &s }

func TestMemberRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewMemberRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	members := []chitfund.Member{
		{ID: "root", JoinedAt: base},
		{ID: "b", JoinedAt: base.Add(2 * time.Hour), ReferrerID: ptr("root")},
		{ID: "a", JoinedAt: base.Add(time.Hour), ReferrerID: ptr("root")},
		{ID: "a1", JoinedAt: base.Add(3 * time.Hour), ReferrerID: ptr("a")},
	}
	for _, m := range members {
		require.NoError(t, repo.Upsert(ctx, m))
	}
	require.NoError(t, repo.AddSubscription(ctx, "root", 120_000))

	t.Run("ListChildren orders by join time", func(t *testing.T) {
		children, err := repo.ListChildren(ctx, []string{"root"})
		require.NoError(t, err)
		require.Len(t, children, 2)
		require.Equal(t, "a", children[0].ID)
		require.Equal(t, "b", children[1].ID)
		require.Equal(t, "root", children[0].ReferrerID)
	})

	t.Run("ListChildren batches parents", func(t *testing.T) {
		children, err := repo.ListChildren(ctx, []string{"root", "a"})
		require.NoError(t, err)
		require.Len(t, children, 3)
	})

	t.Run("ListChildren splits large frontiers", func(t *testing.T) {
		small := &MemberRepository{db: db, batchSize: 1}
		children, err := small.ListChildren(ctx, []string{"a", "root"})
		require.NoError(t, err)
		require.Len(t, children, 3)
		require.Equal(t, []string{"a", "b", "a1"}, []string{children[0].ID, children[1].ID, children[2].ID})
	})

	t.Run("ListChildren past the bind parameter limit", func(t *testing.T) {
		parents := make([]string, 0, 70_000)
		parents = append(parents, "root")
		for i := range 69_999 {
			parents = append(parents, fmt.Sprintf("ghost-%d", i))
		}
		children, err := repo.ListChildren(ctx, parents)
		require.NoError(t, err)
		require.Len(t, children, 2)
	})

	t.Run("ListChildren with no parents", func(t *testing.T) {
		children, err := repo.ListChildren(ctx, nil)
		require.NoError(t, err)
		require.Empty(t, children)
	})

	t.Run("downline over postgres", func(t *testing.T) {
		entries, err := downline.Compute(ctx, "root", repo)
		require.NoError(t, err)
		require.Len(t, entries, 3)
	})

	t.Run("GetSubscriptionAmount", func(t *testing.T) {
		amount, err := repo.GetSubscriptionAmount(ctx, "root")
		require.NoError(t, err)
		require.Equal(t, 120_000.0, amount)

		_, err = repo.GetSubscriptionAmount(ctx, "a")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Get", func(t *testing.T) {
		m, err := repo.Get(ctx, "a1")
		require.NoError(t, err)
		require.Equal(t, "a", *m.ReferrerID)

		_, err = repo.Get(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("AddSubscription rejects negative", func(t *testing.T) {
		err := repo.AddSubscription(ctx, "a", -1)
		require.ErrorIs(t, err, chitfund.ErrInvalidInput)
	})
}
