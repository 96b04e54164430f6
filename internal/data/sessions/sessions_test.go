package sessions

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/mathstep-backend/internal/domain/content"
	"github.com/yungbote/mathstep-backend/internal/modules/lesson/player"
	"github.com/yungbote/mathstep-backend/internal/platform/logger"
)

func sampleSession(t *testing.T) *Session {
	t.Helper()
	ctrl, err := player.New("course-1", []content.Item{
		content.NewMarkdown(content.Markdown{Text: "hi", Format: content.FormatPlain}),
		content.NewQuestion(content.Question{
			Format:        content.MultipleChoice,
			Question:      "Pick",
			Options:       []string{"a", "b"},
			CorrectAnswer: content.IndexAnswer(1),
		}),
	})
	if err != nil {
		t.Fatalf("player.New: %v", err)
	}
	if err := ctrl.Continue(); err != nil {
		t.Fatalf("Continue: %v", err)
	}
	if err := ctrl.Answer(1, content.IndexAnswer(0)); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	return &Session{
		ID:        uuid.NewString(),
		CourseID:  "course-1",
		ChapterID: "chapter-1",
		LessonID:  "lesson-1",
		Player:    ctrl.Snapshot(),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	if _, err := s.Get(ctx, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	sess := sampleSession(t)
	if err := s.Put(ctx, sess); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	ctrl, err := player.Restore(got.Player)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if ctrl.CurrentIndex() != 1 || len(ctrl.Completed()) != 1 {
		t.Fatalf("restored: index=%d completed=%d", ctrl.CurrentIndex(), len(ctrl.Completed()))
	}
	if a := ctrl.AnswerFor(1); !a.Equal(content.IndexAnswer(0)) {
		t.Fatalf("answer lost: %+v", a)
	}
	if err := s.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after Delete, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(time.Hour))
}

func TestMemoryStoreTTLRestartsOnPut(t *testing.T) {
	s := NewMemoryStore(time.Minute).(*memoryStore)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()
	sess := sampleSession(t)
	_ = s.Put(ctx, sess)
	now = now.Add(50 * time.Second)
	_ = s.Put(ctx, sess)
	now = now.Add(50 * time.Second)
	if _, err := s.Get(ctx, sess.ID); err != nil {
		t.Fatalf("session expired despite activity: %v", err)
	}
	now = now.Add(time.Minute)
	if _, err := s.Get(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestMemoryStoreDropsAbandonedSessions(t *testing.T) {
	s := NewMemoryStore(time.Minute).(*memoryStore)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()
	for i := 0; i < 1000; i++ {
		if err := s.Put(ctx, sampleSession(t)); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	now = now.Add(time.Hour)
	last := sampleSession(t)
	if err := s.Put(ctx, last); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if got := len(s.entries); got != 1 {
		t.Fatalf("entries after expiry: got=%d want=1", got)
	}
	if _, err := s.Get(ctx, last.ID); err != nil {
		t.Fatalf("live session lost: %v", err)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("redis ping: %v", err)
	}
	exerciseStore(t, NewRedisStore(rdb, time.Minute, logger.Nop()))
}
