package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/viictorb1-cyber/controle-frotas-1/module/core/domain"
)

var _ Store = (*CachedStore)(nil)

const defaultSnapshotTTL = 5 * time.Minute

// CachedStore decorates a Store with a Redis snapshot of each vehicle.
// Writes go through to Redis so other processes can read the latest state
// and so a restarted server recovers vehicles it has not seen yet; cache
// failures are logged, never surfaced, since the inner store already holds
// the truth for this process.
type CachedStore struct {
	inner Store
	rdb   *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedStore(inner Store, rdb *redis.Client, log *zap.Logger) *CachedStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedStore{inner: inner, rdb: rdb, ttl: defaultSnapshotTTL, log: log}
}

func vehicleKey(id string) string  { return fmt.Sprintf("vehicle:%s:state", id) }
func plateKey(plate string) string { return fmt.Sprintf("vehicle:plate:%s", strings.ToLower(plate)) }

func (s *CachedStore) Get(ctx context.Context, id string) (*domain.Vehicle, error) {
	v, err := s.inner.Get(ctx, id)
	if !errors.Is(err, ErrVehicleNotFound) {
		return v, err
	}
	return s.recover(ctx, vehicleKey(id))
}

func (s *CachedStore) FindByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	v, err := s.inner.FindByPlate(ctx, plate)
	if !errors.Is(err, ErrVehicleNotFound) {
		return v, err
	}

	id, err := s.rdb.Get(ctx, plateKey(plate)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("redis plate lookup failed", zap.Error(err))
		}
		return nil, ErrVehicleNotFound
	}
	return s.recover(ctx, vehicleKey(id))
}

func (s *CachedStore) Put(ctx context.Context, v *domain.Vehicle) error {
	if err := s.inner.Put(ctx, v); err != nil {
		return err
	}

	payload, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("marshal vehicle snapshot", zap.Error(err))
		return nil
	}
	if err := s.rdb.Set(ctx, vehicleKey(v.ID), payload, s.ttl).Err(); err != nil {
		s.log.Warn("redis snapshot write failed", zap.String("vehicle", v.ID), zap.Error(err))
		return nil
	}
	if err := s.rdb.Set(ctx, plateKey(v.LicensePlate), v.ID, s.ttl).Err(); err != nil {
		s.log.Warn("redis plate index write failed", zap.String("vehicle", v.ID), zap.Error(err))
	}
	return nil
}

func (s *CachedStore) Delete(ctx context.Context, id string) error {
	v, _ := s.inner.Get(ctx, id)
	if err := s.inner.Delete(ctx, id); err != nil {
		return err
	}
	keys := []string{vehicleKey(id)}
	if v != nil {
		keys = append(keys, plateKey(v.LicensePlate))
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.log.Warn("redis snapshot delete failed", zap.String("vehicle", id), zap.Error(err))
	}
	return nil
}

func (s *CachedStore) List(ctx context.Context) ([]domain.Vehicle, error) {
	return s.inner.List(ctx)
}

// recover pulls a snapshot back into the inner store after a cache hit.
func (s *CachedStore) recover(ctx context.Context, key string) (*domain.Vehicle, error) {
	raw, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("redis snapshot read failed", zap.Error(err))
		}
		return nil, ErrVehicleNotFound
	}
	var v domain.Vehicle
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.log.Warn("corrupt vehicle snapshot", zap.Error(err))
		return nil, ErrVehicleNotFound
	}
	if err := s.inner.Put(ctx, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
