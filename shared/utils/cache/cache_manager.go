package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"rollcall-backend/shared/config"
)

// CacheManager fronts the admin listing views. Entries are short-lived and
// invalidated after every successful event create or check-in, so the
// roster view never lags a check-in for long.
type CacheManager struct {
	client *redis.Client
	ctx    context.Context
}

var (
	globalCacheManager *CacheManager
	EventListTTL       = 5 * time.Minute
	AttendeeListTTL    = 1 * time.Minute
)

// InitCacheManager initializes the global cache manager
func InitCacheManager() error {
	cfg := config.GetConfig()

	redisDB, err := strconv.Atoi(cfg.RedisDB)
	if err != nil {
		log.Printf("❌ Invalid Redis DB number: %s, using default 0", cfg.RedisDB)
		redisDB = 0
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       redisDB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	globalCacheManager = &CacheManager{
		client: client,
		ctx:    ctx,
	}

	log.Printf("✅ Redis Cache Manager initialized successfully - %s:%s DB:%d",
		cfg.RedisHost, cfg.RedisPort, redisDB)

	return nil
}

// GetCacheManager returns the global cache manager instance
func GetCacheManager() *CacheManager {
	if globalCacheManager == nil {
		if err := InitCacheManager(); err != nil {
			log.Printf("❌ Failed to initialize cache manager: %v", err)
			return nil
		}
	}
	return globalCacheManager
}

// OrgEventsKey generates the cache key for an organization's event list
func OrgEventsKey(orgID uint) string {
	return fmt.Sprintf("events:org:%d", orgID)
}

// EventAttendeesKey generates the cache key for an event's attendee list
func EventAttendeesKey(eventID uint) string {
	return fmt.Sprintf("attendees:event:%d", eventID)
}

// GetList reads a cached listing into dest; returns false on miss or error
func (cm *CacheManager) GetList(key string, dest interface{}) bool {
	if cm == nil || cm.client == nil {
		return false
	}

	data, err := cm.client.Get(cm.ctx, key).Bytes()
	if err != nil {
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("❌ Failed to unmarshal cached list %s: %v", key, err)
		return false
	}

	return true
}

// SetList caches a listing response; failures are logged, never fatal
func (cm *CacheManager) SetList(key string, value interface{}, ttl time.Duration) {
	if cm == nil || cm.client == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("❌ Failed to marshal cache data for %s: %v", key, err)
		return
	}

	if err := cm.client.Set(cm.ctx, key, data, ttl).Err(); err != nil {
		log.Printf("❌ Failed to set cache %s: %v", key, err)
	}
}

// InvalidateOrgEvents drops the cached event list for an organization
func (cm *CacheManager) InvalidateOrgEvents(orgID uint) {
	cm.invalidate(OrgEventsKey(orgID))
}

// InvalidateEventAttendees drops the cached attendee list for an event
func (cm *CacheManager) InvalidateEventAttendees(eventID uint) {
	cm.invalidate(EventAttendeesKey(eventID))
}

func (cm *CacheManager) invalidate(key string) {
	if cm == nil || cm.client == nil {
		return
	}

	if err := cm.client.Del(cm.ctx, key).Err(); err != nil {
		log.Printf("❌ Failed to invalidate cache %s: %v", key, err)
		return
	}

	log.Printf("🔄 Cache invalidated: %s", key)
}
