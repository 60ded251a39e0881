package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gupta1123/fieldsales-teams/internal/domain"
)

// ErrFilterStateNotFound is returned when nothing was saved for a user and screen.
var ErrFilterStateNotFound = errors.New("filter state not found")

// FilterStateRepository persists a user's filter state per screen.
type FilterStateRepository interface {
	Get(ctx context.Context, employeeID int64, screen string) (domain.FilterState, error)
	Save(ctx context.Context, employeeID int64, screen string, state domain.FilterState) error
	Delete(ctx context.Context, employeeID int64, screen string) error
}

type redisFilterStateRepository struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisFilterStateRepository stores states as JSON under
// "<prefix>:filters:<employee>:<screen>" with a sliding TTL.
func NewRedisFilterStateRepository(client *redis.Client, prefix string, ttl time.Duration) FilterStateRepository {
	return &redisFilterStateRepository{client: client, prefix: prefix, ttl: ttl}
}

func (r *redisFilterStateRepository) key(employeeID int64, screen string) string {
	return fmt.Sprintf("%s:filters:%d:%s", r.prefix, employeeID, screen)
}

func (r *redisFilterStateRepository) Get(ctx context.Context, employeeID int64, screen string) (domain.FilterState, error) {
	raw, err := r.client.Get(ctx, r.key(employeeID, screen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.FilterState{}, ErrFilterStateNotFound
	}
	if err != nil {
		return domain.FilterState{}, err
	}
	return decodeFilterState(raw)
}

func (r *redisFilterStateRepository) Save(ctx context.Context, employeeID int64, screen string, state domain.FilterState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(employeeID, screen), raw, r.ttl).Err()
}

func (r *redisFilterStateRepository) Delete(ctx context.Context, employeeID int64, screen string) error {
	return r.client.Del(ctx, r.key(employeeID, screen)).Err()
}

// decodeFilterState rejects states written by another schema version so a
// stale shape is never applied.
func decodeFilterState(raw []byte) (domain.FilterState, error) {
	var state domain.FilterState
	if err := json.Unmarshal(raw, &state); err != nil {
		return domain.FilterState{}, ErrFilterStateNotFound
	}
	if state.Version != domain.FilterStateVersion {
		return domain.FilterState{}, ErrFilterStateNotFound
	}
	return state, nil
}

type memoryFilterStateRepository struct {
	mu     sync.RWMutex
	states map[string][]byte
}

// NewMemoryFilterStateRepository keeps states in process. Used when Redis is
// unreachable and in tests.
func NewMemoryFilterStateRepository() FilterStateRepository {
	return &memoryFilterStateRepository{states: make(map[string][]byte)}
}

func memoryKey(employeeID int64, screen string) string {
	return fmt.Sprintf("%d:%s", employeeID, screen)
}

func (r *memoryFilterStateRepository) Get(ctx context.Context, employeeID int64, screen string) (domain.FilterState, error) {
	r.mu.RLock()
	raw, ok := r.states[memoryKey(employeeID, screen)]
	r.mu.RUnlock()
	if !ok {
		return domain.FilterState{}, ErrFilterStateNotFound
	}
	return decodeFilterState(raw)
}

func (r *memoryFilterStateRepository) Save(ctx context.Context, employeeID int64, screen string, state domain.FilterState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[memoryKey(employeeID, screen)] = raw
	return nil
}

func (r *memoryFilterStateRepository) Delete(ctx context.Context, employeeID int64, screen string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, memoryKey(employeeID, screen))
	return nil
}
