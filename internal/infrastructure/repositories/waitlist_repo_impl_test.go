package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"nft-launchpad.backend/internal/domain/entities"
	domainerrors "nft-launchpad.backend/internal/domain/errors"
)

func TestWaitlistRepository_DuplicateEmailConflicts(t *testing.T) {
	db := newTestDB(t)
	createWaitlistTable(t, db)
	repo := NewWaitlistRepository(db)
	ctx := context.Background()

	first := &entities.WaitlistEntry{Email: "Collector@Example.com", WalletAddress: null.StringFrom("0xABC")}
	require.NoError(t, repo.Create(ctx, first))
	require.Equal(t, "collector@example.com", first.Email)

	err := repo.Create(ctx, &entities.WaitlistEntry{Email: "collector@example.com"})
	require.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), n, "duplicate must not create a second row")
}

func TestIsDuplicateKeyError(t *testing.T) {
	require.False(t, isDuplicateKeyError(nil))
	require.True(t, isDuplicateKeyError(gorm.ErrDuplicatedKey))
	require.True(t, isDuplicateKeyError(&pgconn.PgError{Code: "23505"}))
	require.True(t, isDuplicateKeyError(&pq.Error{Code: "23505"}))
	require.True(t, isDuplicateKeyError(errors.New("UNIQUE constraint failed: waitlist_entries.email")))
	require.False(t, isDuplicateKeyError(&pgconn.PgError{Code: "23503"}))
	require.False(t, isDuplicateKeyError(errors.New("connection refused")))
}
