package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/kapu/pokedex-kakao-bot-go/internal/dex"
	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
	"go.uber.org/zap"
)

// CollectionService owns the caught-creature registries, one per room and
// user. Registries live in memory and are mirrored to Redis as a single
// JSON blob per owner on every successful insert. The store is loaded
// once per owner; a missing or unreadable blob simply starts empty so a
// flaky Redis never blocks catching.
type CollectionService struct {
	cache      *CacheService
	logger     *zap.Logger
	registries map[string]*dex.Registry
	mu         sync.Mutex
}

func NewCollectionService(cache *CacheService, logger *zap.Logger) *CollectionService {
	return &CollectionService{
		cache:      cache,
		logger:     logger,
		registries: make(map[string]*dex.Registry),
	}
}

func collectionKey(room, user string) string {
	return fmt.Sprintf("pokedex:collection:%s:%s", room, user)
}

// Register records a catch and reports whether it was new for this owner.
// Persistence failures are logged, never surfaced; the in-memory registry
// is the source of truth for the session.
func (cs *CollectionService) Register(ctx context.Context, room, user string, record domain.CaughtRecord) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	registry := cs.loadLocked(ctx, room, user)

	inserted := registry.Register(record)
	if !inserted {
		return false
	}

	key := collectionKey(room, user)
	if err := cs.cache.Set(ctx, key, registry.Records(), 0); err != nil {
		cs.logger.Warn("Failed to persist collection",
			zap.String("room", room),
			zap.String("user", user),
			zap.Error(err),
		)
	}

	return true
}

// Records returns the owner's catches in catch order.
func (cs *CollectionService) Records(ctx context.Context, room, user string) []domain.CaughtRecord {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	return cs.loadLocked(ctx, room, user).Records()
}

// loadLocked returns the owner's registry, hydrating it from Redis on
// first touch. Callers must hold cs.mu.
func (cs *CollectionService) loadLocked(ctx context.Context, room, user string) *dex.Registry {
	key := collectionKey(room, user)

	if registry, ok := cs.registries[key]; ok {
		return registry
	}

	var records []domain.CaughtRecord
	if err := cs.cache.Get(ctx, key, &records); err != nil {
		cs.logger.Warn("Failed to load collection, starting empty",
			zap.String("room", room),
			zap.String("user", user),
			zap.Error(err),
		)
		records = nil
	}

	registry := dex.RegistryFromRecords(records)
	cs.registries[key] = registry

	if registry.Len() > 0 {
		cs.logger.Debug("Collection hydrated",
			zap.String("room", room),
			zap.String("user", user),
			zap.Int("records", registry.Len()),
		)
	}

	return registry
}
