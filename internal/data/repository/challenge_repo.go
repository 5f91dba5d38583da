package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ride-hailing/internal/data/entity"
	"ride-hailing/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ChallengeStore holds pending OTP workflows keyed by an opaque challenge token.
//
// Consume deletes the challenge and reports whether this caller was the one that
// removed it; exactly one of several concurrent callers sees true.
type ChallengeStore interface {
	Save(ctx context.Context, challenge *entity.Challenge) error
	Get(ctx context.Context, token string) (*entity.Challenge, error)
	Update(ctx context.Context, challenge *entity.Challenge) error
	Consume(ctx context.Context, token string) (bool, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

var ErrChallengeNotFound = errors.New("challenge not found")

type pgChallengeStore struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPostgresChallengeStore(db database.PgxIface, log *zap.Logger) ChallengeStore {
	return &pgChallengeStore{
		db:  db,
		log: log.With(zap.String("repository", "challenge")),
	}
}

func (r *pgChallengeStore) Save(ctx context.Context, challenge *entity.Challenge) error {
	payload, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("encode challenge: %w", err)
	}

	query := `
		INSERT INTO otp_challenges (token, kind, email, payload, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.db.Exec(ctx, query,
		challenge.Token,
		challenge.Kind,
		challenge.Email(),
		payload,
		challenge.ExpiresAt,
		challenge.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to save challenge",
			zap.Error(err),
			zap.String("kind", string(challenge.Kind)),
			zap.String("email", challenge.Email()),
		)
		return fmt.Errorf("save %s challenge for %s: %w", challenge.Kind, challenge.Email(), err)
	}

	return nil
}

func (r *pgChallengeStore) Get(ctx context.Context, token string) (*entity.Challenge, error) {
	query := `SELECT payload FROM otp_challenges WHERE token = $1`

	var payload []byte
	err := r.db.QueryRow(ctx, query, token).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
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

func (r *pgChallengeStore) Update(ctx context.Context, challenge *entity.Challenge) error {
	payload, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("encode challenge: %w", err)
	}

	query := `UPDATE otp_challenges SET payload = $2 WHERE token = $1`

	result, err := r.db.Exec(ctx, query, challenge.Token, payload)
	if err != nil {
		r.log.Error("Failed to update challenge", zap.Error(err))
		return fmt.Errorf("update challenge: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrChallengeNotFound
	}

	return nil
}

// Consume removes the challenge inside a transaction; the row lock taken by DELETE
// makes a concurrent consumer observe zero affected rows.
func (r *pgChallengeStore) Consume(ctx context.Context, token string) (bool, error) {
	var consumed bool

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var deleted string
		err := tx.QueryRow(ctx, `DELETE FROM otp_challenges WHERE token = $1 RETURNING token`, token).Scan(&deleted)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		consumed = true
		return nil
	})
	if err != nil {
		r.log.Error("Failed to consume challenge", zap.Error(err))
		return false, fmt.Errorf("consume challenge: %w", err)
	}

	return consumed, nil
}

func (r *pgChallengeStore) PurgeExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM otp_challenges WHERE expires_at < $1`

	result, err := r.db.Exec(ctx, query, time.Now().Add(-entity.ChallengeRetention))
	if err != nil {
		r.log.Error("Failed to purge expired challenges", zap.Error(err))
		return 0, fmt.Errorf("purge challenges: %w", err)
	}

	return result.RowsAffected(), nil
}
