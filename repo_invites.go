package gate

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Invites is the bun-backed token store. It owns all persisted invite
// state; services go through InviteService rather than writing here.
type Invites interface {
	repository.Repository[*InviteToken]

	Insert(ctx context.Context, record *InviteToken) (*InviteToken, error)
	InsertTx(ctx context.Context, tx bun.IDB, record *InviteToken) (*InviteToken, error)
	FindByToken(ctx context.Context, token string) (*InviteToken, error)
	FindByTokenTx(ctx context.Context, tx bun.IDB, token string) (*InviteToken, error)
	SetActive(ctx context.Context, token string, active bool) error
	SetActiveTx(ctx context.Context, tx bun.IDB, token string, active bool) error
}

type invites struct {
	repository.Repository[*InviteToken]
	db *bun.DB
}

var (
	_ Invites                             = (*invites)(nil)
	_ repository.Repository[*InviteToken] = (*invites)(nil)
	_ TokenStore                          = (*invites)(nil)
)

func NewInvitesRepository(db *bun.DB) Invites {
	repo := repository.NewRepository[*InviteToken](db, repository.ModelHandlers[*InviteToken]{
		NewRecord: func() *InviteToken { return &InviteToken{} },
		GetID: func(record *InviteToken) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *InviteToken, id uuid.UUID) {
			record.ID = id
		},
		GetIdentifier: func() string {
			return "token"
		},
	})

	return &invites{
		Repository: repo,
		db:         db,
	}
}

func (r *invites) Insert(ctx context.Context, record *InviteToken) (*InviteToken, error) {
	return r.InsertTx(ctx, r.db, record)
}

func (r *invites) InsertTx(ctx context.Context, tx bun.IDB, record *InviteToken) (*InviteToken, error) {
	prepareInviteDefaults(record)
	return r.Repository.CreateTx(ctx, tx, record)
}

func (r *invites) FindByToken(ctx context.Context, token string) (*InviteToken, error) {
	return r.FindByTokenTx(ctx, r.db, token)
}

func (r *invites) FindByTokenTx(ctx context.Context, tx bun.IDB, token string) (*InviteToken, error) {
	record := &InviteToken{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.token = ?", token).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"token": token,
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *invites) SetActive(ctx context.Context, token string, active bool) error {
	return r.SetActiveTx(ctx, r.db, token, active)
}

// SetActiveTx updates zero or more rows; a missing token is not an error,
// which keeps revocation idempotent at the storage layer.
func (r *invites) SetActiveTx(ctx context.Context, tx bun.IDB, token string, active bool) error {
	_, err := tx.NewUpdate().
		Model((*InviteToken)(nil)).
		Set("active = ?", active).
		Set("updated_at = ?", time.Now()).
		Where("token = ?", token).
		Exec(ctx)

	return err
}

func prepareInviteDefaults(record *InviteToken) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
