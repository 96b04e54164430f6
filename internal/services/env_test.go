package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mathstep-backend/internal/data/drafts"
	"github.com/yungbote/mathstep-backend/internal/data/repos"
	"github.com/yungbote/mathstep-backend/internal/data/repos/testutil"
	"github.com/yungbote/mathstep-backend/internal/data/sessions"
	"github.com/yungbote/mathstep-backend/internal/modules/lesson/lookup"
	"github.com/yungbote/mathstep-backend/internal/platform/ctxutil"
	"github.com/yungbote/mathstep-backend/internal/platform/logger"
)

type testEnv struct {
	db      *gorm.DB
	log     *logger.Logger
	users   repos.UserRepo
	tokens  repos.UserTokenRepo
	catalog CatalogRepos
	source  lookup.Source
	mailer  *captureMailer

	auth   AuthService
	user   UserService
	catSvc CatalogService
	player PlayerService
	draft  DraftService
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	e := &testEnv{
		db:     db,
		log:    log,
		users:  repos.NewUserRepo(db, log),
		tokens: repos.NewUserTokenRepo(db, log),
		catalog: CatalogRepos{
			Courses:  repos.NewCourseRepo(db, log),
			Chapters: repos.NewChapterRepo(db, log),
			Lessons:  repos.NewLessonRepo(db, log),
			Contents: repos.NewLessonContentRepo(db, log),
		},
	}
	e.mailer = &captureMailer{}
	e.source = lookup.NewRepoSource(e.catalog.Courses, e.catalog.Chapters, e.catalog.Lessons, e.catalog.Contents)
	e.auth = NewAuthService(db, log, e.users, e.tokens, "test-secret", time.Hour, 24*time.Hour, time.Hour, e.mailer, "http://localhost:8000/")
	e.user = NewUserService(log, e.users)
	e.catSvc = NewCatalogService(db, log, e.source, e.catalog, false)
	e.player = NewPlayerService(log, e.source, sessions.NewMemoryStore(time.Hour))
	e.draft = NewDraftService(log, drafts.NewMemoryStore(time.Hour), e.catSvc)
	return e
}

func uniqueEmail() string { return uuid.NewString()[:8] + "@example.com" }

// authed registers a user and returns a context carrying their identity.
func (e *testEnv) authed(t *testing.T) context.Context {
	t.Helper()
	ctx := context.Background()
	sess, err := e.auth.RegisterUser(ctx, RegisterInput{Email: uniqueEmail(), Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{TokenString: sess.AccessToken, UserID: sess.User.ID})
}

type captureMailer struct {
	links map[string]string
}

func (m *captureMailer) SendVerification(ctx context.Context, email, link string) error {
	if m.links == nil {
		m.links = map[string]string{}
	}
	m.links[email] = link
	return nil
}
