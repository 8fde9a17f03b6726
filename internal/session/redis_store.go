package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each session as a JSON value whose key expires with it.
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewRedisStore(rdb redis.UniversalClient) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: "pharmacy:session:", now: time.Now}
}

type redisValue struct {
	Token       string          `json:"token"`
	User        json.RawMessage `json:"user"`
	DraftImages []string        `json:"draftImages"`
	ExpiresAt   time.Time       `json:"expiresAt"`
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := s.rdb.Get(ctx, s.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var v redisValue
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	sess := &Session{ID: id, Token: v.Token, DraftImages: v.DraftImages, ExpiresAt: v.ExpiresAt}
	if len(v.User) > 0 {
		if err := json.Unmarshal(v.User, &sess.User); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return s.Delete(ctx, sess.ID)
	}
	user, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	b, err := json.Marshal(redisValue{Token: sess.Token, User: user, DraftImages: sess.DraftImages, ExpiresAt: sess.ExpiresAt})
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.prefix+sess.ID, b, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, s.prefix+id).Err()
}
