package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

func OpenRedis(addr string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return r, nil
}

// ReservationTTL bounds how long an in-progress reservation blocks retries
// if the process dies before completing it.
const ReservationTTL = 60 * time.Second

// Entry is what the idempotency store keeps per request key.
type Entry struct {
	InProgress  bool      `json:"in_progress"`
	Code        int       `json:"code"`
	Body        []byte    `json:"body"`
	BodySHA256  string    `json:"body_sha256"`
	RequestID   string    `json:"request_id"`
	RequestAtMS int64     `json:"request_at_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

// IdempotencyStore keeps request outcomes in redis so a retried mutating
// request replays the first response instead of running twice.
type IdempotencyStore struct{ rdb *redis.Client }

func NewIdempotencyStore(rdb *redis.Client) *IdempotencyStore { return &IdempotencyStore{rdb: rdb} }

// Reserve claims key with an in-progress entry. It reports false when the key
// already exists.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string, e Entry) (bool, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, ReservationTTL).Result()
}

// ErrEntryGone is returned by Load when the key no longer exists.
var ErrEntryGone = errors.New("idempotency entry gone")

func (s *IdempotencyStore) Load(ctx context.Context, key string) (Entry, error) {
	var e Entry
	v, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return e, ErrEntryGone
	}
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(v, &e)
	return e, err
}

// Complete replaces the reservation with the final response for ttl.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, e Entry, ttl time.Duration) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, ttl).Err()
}

// Release drops a reservation so the client may retry.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
