package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/mathstep-backend/internal/modules/lesson/player"
	"github.com/yungbote/mathstep-backend/internal/platform/logger"
)

var ErrNotFound = errors.New("player session not found")

// Session is a server-held lesson walkthrough. It is ephemeral and expires
// after the store's TTL of inactivity.
type Session struct {
	ID        string          `json:"id"`
	CourseID  string          `json:"course_id"`
	ChapterID string          `json:"chapter_id"`
	LessonID  string          `json:"lesson_id"`
	Titles    Titles          `json:"titles"`
	Player    player.Snapshot `json:"player"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Titles are copied from the catalog when the session starts so the lesson
// page renders without another lookup.
type Titles struct {
	Course            string `json:"course"`
	Chapter           string `json:"chapter"`
	Lesson            string `json:"lesson"`
	LessonDescription string `json:"lesson_description,omitempty"`
}

type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	// Put writes the session and restarts its TTL.
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

const keyPrefix = "player:session:"

type redisStore struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *goredis.Client, ttl time.Duration, baseLog *logger.Logger) Store {
	return &redisStore{log: baseLog.With("store", "RedisSessionStore"), rdb: rdb, ttl: ttl}
}

func (s *redisStore) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		s.log.Warn("Dropping unreadable player session", "session_id", id, "error", err)
		_ = s.rdb.Del(ctx, keyPrefix+id).Err()
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (s *redisStore) Put(ctx context.Context, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, keyPrefix+sess.ID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}

type memoryEntry struct {
	raw     []byte
	expires time.Time
}

type memoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
	// nextSweep bounds full scans for expired entries to one per ttl.
	nextSweep time.Time
}

// NewMemoryStore keeps sessions in process. Entries are stored encoded so a
// caller never shares state with the store.
func NewMemoryStore(ttl time.Duration) Store {
	return &memoryStore{ttl: ttl, now: time.Now, entries: map[string]memoryEntry{}}
}

func (s *memoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !e.expires.IsZero() && !s.now().Before(e.expires) {
		delete(s.entries, id)
		return nil, ErrNotFound
	}
	var sess Session
	if err := json.Unmarshal(e.raw, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *memoryStore) Put(ctx context.Context, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	e := memoryEntry{raw: raw}
	now := s.now()
	if s.ttl > 0 {
		e.expires = now.Add(s.ttl)
	}
	s.mu.Lock()
	s.sweepLocked(now)
	s.entries[sess.ID] = e
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) sweepLocked(now time.Time) {
	if s.ttl <= 0 || now.Before(s.nextSweep) {
		return
	}
	for k, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, k)
		}
	}
	s.nextSweep = now.Add(s.ttl)
}
