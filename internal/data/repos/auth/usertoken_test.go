package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mathstep-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mathstep-backend/internal/domain"
	"github.com/yungbote/mathstep-backend/internal/platform/dbctx"
)

func TestUserTokenRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	u := testutil.SeedUser(t, ctx, tx, "tokens@example.com")
	repo := NewUserTokenRepo(db, testutil.Logger(t))

	created, err := repo.Create(dbc, []*types.UserToken{
		{UserID: u.ID, AccessToken: "a1", RefreshToken: "r1", ExpiresAt: time.Now().Add(time.Hour)},
		{UserID: u.ID, AccessToken: "a2", RefreshToken: "r2", ExpiresAt: time.Now().Add(-time.Hour)},
	})
	if err != nil || len(created) != 2 {
		t.Fatalf("Create: got=%d err=%v", len(created), err)
	}

	byAccess, err := repo.GetByAccessTokens(dbc, []string{"a1"})
	if err != nil || len(byAccess) != 1 || byAccess[0].RefreshToken != "r1" {
		t.Fatalf("GetByAccessTokens: %+v err=%v", byAccess, err)
	}
	byRefresh, err := repo.GetByRefreshTokens(dbc, []string{"r2"})
	if err != nil || len(byRefresh) != 1 || byRefresh[0].AccessToken != "a2" {
		t.Fatalf("GetByRefreshTokens: %+v err=%v", byRefresh, err)
	}

	purged, err := repo.FullDeleteExpired(dbc, time.Now())
	if err != nil || purged != 1 {
		t.Fatalf("FullDeleteExpired: purged=%d err=%v", purged, err)
	}

	if err := repo.SoftDeleteByIDs(dbc, []uuid.UUID{byAccess[0].ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}
	left, err := repo.GetByAccessTokens(dbc, []string{"a1", "a2"})
	if err != nil || len(left) != 0 {
		t.Fatalf("expected no tokens left, got %d err=%v", len(left), err)
	}
}
