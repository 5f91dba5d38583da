package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// UserLocationKey is the geo set holding the last known position of every user.
const UserLocationKey = "users:location"

type NearbyUser struct {
	UserID     uuid.UUID
	Longitude  float64
	Latitude   float64
	DistanceKm float64
}

type LocationRepository interface {
	// Upsert reports true when the user had no stored position before.
	Upsert(ctx context.Context, userID uuid.UUID, longitude, latitude float64) (bool, error)
	Nearby(ctx context.Context, longitude, latitude, radiusKm float64, limit int) ([]NearbyUser, error)
	Remove(ctx context.Context, userID uuid.UUID) error
}

type locationRepository struct {
	client redis.UniversalClient
	log    *zap.Logger
}

func NewLocationRepository(client redis.UniversalClient, log *zap.Logger) LocationRepository {
	return &locationRepository{
		client: client,
		log:    log.With(zap.String("repository", "location")),
	}
}

func (r *locationRepository) Upsert(ctx context.Context, userID uuid.UUID, longitude, latitude float64) (bool, error) {
	added, err := r.client.GeoAdd(ctx, UserLocationKey, &redis.GeoLocation{
		Name:      userID.String(),
		Longitude: longitude,
		Latitude:  latitude,
	}).Result()
	if err != nil {
		r.log.Error("Failed to store location",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return false, fmt.Errorf("geoadd %s: %w", userID.String(), err)
	}

	return added == 1, nil
}

func (r *locationRepository) Nearby(ctx context.Context, longitude, latitude, radiusKm float64, limit int) ([]NearbyUser, error) {
	locations, err := r.client.GeoRadius(ctx, UserLocationKey, longitude, latitude, &redis.GeoRadiusQuery{
		Radius:    radiusKm,
		Unit:      "km",
		WithCoord: true,
		WithDist:  true,
		Count:     limit,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		r.log.Error("Failed to search nearby users",
			zap.Error(err),
			zap.Float64("lng", longitude),
			zap.Float64("lat", latitude),
		)
		return nil, fmt.Errorf("georadius: %w", err)
	}

	nearby := make([]NearbyUser, 0, len(locations))
	for _, loc := range locations {
		id, err := uuid.Parse(loc.Name)
		if err != nil {
			r.log.Warn("Skipping malformed location member", zap.String("member", loc.Name))
			continue
		}
		nearby = append(nearby, NearbyUser{
			UserID:     id,
			Longitude:  loc.Longitude,
			Latitude:   loc.Latitude,
			DistanceKm: loc.Dist,
		})
	}

	return nearby, nil
}

func (r *locationRepository) Remove(ctx context.Context, userID uuid.UUID) error {
	if err := r.client.ZRem(ctx, UserLocationKey, userID.String()).Err(); err != nil {
		return fmt.Errorf("remove location %s: %w", userID.String(), err)
	}
	return nil
}
