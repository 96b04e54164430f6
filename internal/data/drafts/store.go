package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/mathstep-backend/internal/platform/logger"
)

// DraftKey is the single slot a user's editor draft is saved under.
const DraftKey = "courseDraft"

// Store saves one draft per owner. Load reports ok=false when nothing is
// saved or the draft expired.
type Store interface {
	Load(ctx context.Context, owner string) (Draft, bool, error)
	Save(ctx context.Context, owner string, d Draft) error
	Clear(ctx context.Context, owner string) error
}

func key(owner string) string { return DraftKey + ":" + owner }

type redisStore struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *goredis.Client, ttl time.Duration, baseLog *logger.Logger) Store {
	return &redisStore{log: baseLog.With("store", "RedisDraftStore"), rdb: rdb, ttl: ttl}
}

func (s *redisStore) Load(ctx context.Context, owner string) (Draft, bool, error) {
	raw, err := s.rdb.Get(ctx, key(owner)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get draft: %w", err)
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		s.log.Warn("Discarding unreadable draft", "owner", owner, "error", err)
		_ = s.rdb.Del(ctx, key(owner)).Err()
		return nil, false, nil
	}
	return d, true, nil
}

func (s *redisStore) Save(ctx context.Context, owner string, d Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, key(owner), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set draft: %w", err)
	}
	return nil
}

func (s *redisStore) Clear(ctx context.Context, owner string) error {
	if err := s.rdb.Del(ctx, key(owner)).Err(); err != nil {
		return fmt.Errorf("redis del draft: %w", err)
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

// NewMemoryStore keeps drafts in process. It is used when no redis address
// is configured. A zero ttl never expires.
func NewMemoryStore(ttl time.Duration) Store {
	return &memoryStore{ttl: ttl, now: time.Now, entries: map[string]memoryEntry{}}
}

func (s *memoryStore) Load(ctx context.Context, owner string) (Draft, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key(owner)]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !s.now().Before(e.expires) {
		delete(s.entries, key(owner))
		return nil, false, nil
	}
	var d Draft
	if err := json.Unmarshal(e.raw, &d); err != nil {
		return nil, false, err
	}
	return d, true, nil
}

func (s *memoryStore) Save(ctx context.Context, owner string, d Draft) error {
	raw, err := json.Marshal(d)
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
	s.entries[key(owner)] = e
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Clear(ctx context.Context, owner string) error {
	s.mu.Lock()
	delete(s.entries, key(owner))
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
