package app

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mathstep-backend/internal/data/repos"
	"github.com/yungbote/mathstep-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mathstep-backend/internal/domain"
	"github.com/yungbote/mathstep-backend/internal/platform/dbctx"
)

func TestStartWithSweepDisabled(t *testing.T) {
	a := &App{Log: testutil.Logger(t), Cfg: Config{TokenSweepEvery: 0}}
	if err := a.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if a.cron != nil {
		t.Fatalf("expected no scheduler when the sweep is disabled")
	}
}

func TestStartAndCloseScheduler(t *testing.T) {
	a := &App{Log: testutil.Logger(t), Cfg: Config{TokenSweepEvery: time.Hour}}
	if err := a.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if a.cron == nil || len(a.cron.Entries()) != 1 {
		t.Fatalf("expected one scheduled sweep")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	a.Close(ctx)
	if a.cron != nil {
		t.Fatalf("Close should stop the scheduler")
	}
}

func TestSweepTokensDeletesExpired(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)
	u := testutil.SeedUser(t, ctx, db, "sweep-"+uuid.NewString()+"@example.com")
	tokens := repos.NewUserTokenRepo(db, log)

	live, expired := uuid.NewString(), uuid.NewString()
	_, err := tokens.Create(dbctx.Context{Ctx: ctx}, []*types.UserToken{
		{UserID: u.ID, AccessToken: live, RefreshToken: live + "-r", ExpiresAt: time.Now().Add(time.Hour)},
		{UserID: u.ID, AccessToken: expired, RefreshToken: expired + "-r", ExpiresAt: time.Now().Add(-time.Minute)},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	a := &App{Log: log, Repos: Repos{UserToken: tokens}}
	a.sweepTokens(ctx)

	left, err := tokens.GetByAccessTokens(dbctx.Context{Ctx: ctx}, []string{live, expired})
	if err != nil {
		t.Fatalf("GetByAccessTokens: %v", err)
	}
	if len(left) != 1 || left[0].AccessToken != live {
		t.Fatalf("tokens after sweep: got=%d want only the live token", len(left))
	}
}
