package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ride-hailing/internal/data/entity"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const challengeKeyPrefix = "challenge:"

type redisChallengeStore struct {
	client redis.UniversalClient
	log    *zap.Logger
}

// NewRedisChallengeStore keeps challenges as JSON values that expire on their own.
func NewRedisChallengeStore(client redis.UniversalClient, log *zap.Logger) ChallengeStore {
	return &redisChallengeStore{
		client: client,
		log:    log.With(zap.String("repository", "challenge_redis")),
	}
}

func challengeKey(token string) string {
	return challengeKeyPrefix + token
}

func (r *redisChallengeStore) Save(ctx context.Context, challenge *entity.Challenge) error {
	payload, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("encode challenge: %w", err)
	}

	ttl := time.Until(challenge.RetainUntil())
	if ttl <= 0 {
		ttl = time.Second
	}

	if err := r.client.Set(ctx, challengeKey(challenge.Token), payload, ttl).Err(); err != nil {
		r.log.Error("Failed to save challenge",
			zap.Error(err),
			zap.String("kind", string(challenge.Kind)),
			zap.String("email", challenge.Email()),
		)
		return fmt.Errorf("save %s challenge for %s: %w", challenge.Kind, challenge.Email(), err)
	}

	return nil
}

func (r *redisChallengeStore) Get(ctx context.Context, token string) (*entity.Challenge, error) {
	payload, err := r.client.Get(ctx, challengeKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to load challenge", zap.Error(err))
		return nil, fmt.Errorf("load challenge: %w", err)
	}

	var challenge entity.Challenge
	if err := json.Unmarshal(payload, &challenge); err != nil {
		return nil, fmt.Errorf("decode challenge: %w", err)
	}

	return &challenge, nil
}

func (r *redisChallengeStore) Update(ctx context.Context, challenge *entity.Challenge) error {
	payload, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("encode challenge: %w", err)
	}

	// XX: only overwrite a live key, KEEPTTL: do not extend its lifetime
	err = r.client.SetArgs(ctx, challengeKey(challenge.Token), payload, redis.SetArgs{
		Mode:    "XX",
		KeepTTL: true,
	}).Err()
	if errors.Is(err, redis.Nil) {
		return ErrChallengeNotFound
	}
	if err != nil {
		r.log.Error("Failed to update challenge", zap.Error(err))
		return fmt.Errorf("update challenge: %w", err)
	}

	return nil
}

func (r *redisChallengeStore) Consume(ctx context.Context, token string) (bool, error) {
	deleted, err := r.client.Del(ctx, challengeKey(token)).Result()
	if err != nil {
		r.log.Error("Failed to consume challenge", zap.Error(err))
		return false, fmt.Errorf("consume challenge: %w", err)
	}

	return deleted == 1, nil
}

// PurgeExpired is a no-op: Redis evicts keys when their TTL runs out.
func (r *redisChallengeStore) PurgeExpired(_ context.Context) (int64, error) {
	return 0, nil
}
