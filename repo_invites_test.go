package gate_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	gate "github.com/clutchcli/go-gate"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const sqliteCreateInviteTokens = `
CREATE TABLE IF NOT EXISTS invite_tokens (
    id TEXT PRIMARY KEY,
    token TEXT NOT NULL UNIQUE,
    issued_at TIMESTAMP NOT NULL,
    expires_at TIMESTAMP NOT NULL,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    created_by TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP
);`

func setupInvitesRepo(t *testing.T) (gate.Invites, *bun.DB) {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())

	_, err = bunDB.Exec(sqliteCreateInviteTokens)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = bunDB.Close()
		_ = db.Close()
	})

	return gate.NewInvitesRepository(bunDB), bunDB
}

func TestInvitesRepository(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)

	newRecord := func(token string) *gate.InviteToken {
		return &gate.InviteToken{
			Token:     token,
			IssuedAt:  base,
			ExpiresAt: base.Add(15 * time.Minute),
			Active:    true,
			CreatedBy: "user-123",
		}
	}

	t.Run("insert assigns an id and round-trips by token", func(t *testing.T) {
		repo, _ := setupInvitesRepo(t)

		created, err := repo.Insert(ctx, newRecord("tok-a"))
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)

		found, err := repo.FindByToken(ctx, "tok-a")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "tok-a", found.Token)
		assert.True(t, found.Active)
		assert.Equal(t, "user-123", found.CreatedBy)
	})

	t.Run("duplicate token insert fails", func(t *testing.T) {
		repo, _ := setupInvitesRepo(t)

		_, err := repo.Insert(ctx, newRecord("tok-a"))
		require.NoError(t, err)

		_, err = repo.Insert(ctx, newRecord("tok-a"))
		require.Error(t, err)
	})

	t.Run("missing token reads as record not found", func(t *testing.T) {
		repo, _ := setupInvitesRepo(t)

		found, err := repo.FindByToken(ctx, "never-issued")
		assert.Nil(t, found)
		require.Error(t, err)
		assert.True(t, repository.IsRecordNotFound(err))
	})

	t.Run("set active flips the kill switch in place", func(t *testing.T) {
		repo, _ := setupInvitesRepo(t)

		_, err := repo.Insert(ctx, newRecord("tok-a"))
		require.NoError(t, err)

		require.NoError(t, repo.SetActive(ctx, "tok-a", false))

		found, err := repo.FindByToken(ctx, "tok-a")
		require.NoError(t, err)
		assert.False(t, found.Active)

		// Flipping back works too.
		require.NoError(t, repo.SetActive(ctx, "tok-a", true))

		found, err = repo.FindByToken(ctx, "tok-a")
		require.NoError(t, err)
		assert.True(t, found.Active)
	})

	t.Run("set active on a missing token is not an error", func(t *testing.T) {
		repo, _ := setupInvitesRepo(t)

		assert.NoError(t, repo.SetActive(ctx, "never-issued", false))
	})

	t.Run("tx variants compose inside run-in-tx", func(t *testing.T) {
		repo, bunDB := setupInvitesRepo(t)
		manager := gate.NewRepositoryManager(bunDB)

		err := manager.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := repo.InsertTx(ctx, tx, newRecord("tok-tx")); err != nil {
				return err
			}
			return repo.SetActiveTx(ctx, tx, "tok-tx", false)
		})
		require.NoError(t, err)

		found, err := repo.FindByToken(ctx, "tok-tx")
		require.NoError(t, err)
		assert.False(t, found.Active)
	})
}
