package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// generations outlive the slot lists by far, an expired counter restarts at 0
const minGenerationTTL = time.Hour

// MemoryCache is the in-process SlotCache used when Redis is not configured
type MemoryCache struct {
	mu     sync.Mutex
	store  *gocache.Cache
	gens   *gocache.Cache
	genTTL time.Duration
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	genTTL := max(10*ttl, minGenerationTTL)
	return &MemoryCache{
		store:  gocache.New(ttl, 2*ttl),
		gens:   gocache.New(genTTL, genTTL),
		genTTL: genTTL,
	}
}

func (c *MemoryCache) GetBookedSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]string, bool, error) {
	value, found := c.store.Get(slotKey(doctorID, date))
	if !found {
		return nil, false, nil
	}

	slots, ok := value.([]string)
	if !ok {
		return nil, false, nil
	}

	out := make([]string, len(slots))
	copy(out, slots)
	return out, true, nil
}

func (c *MemoryCache) Generation(ctx context.Context, doctorID uuid.UUID, date string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation(generationKey(doctorID, date)), nil
}

func (c *MemoryCache) generation(key string) int64 {
	if value, found := c.gens.Get(key); found {
		if gen, ok := value.(int64); ok {
			return gen
		}
	}
	return 0
}

// SetBookedSlots stores slots unless the key was invalidated after generation was read
func (c *MemoryCache) SetBookedSlots(ctx context.Context, doctorID uuid.UUID, date string, generation int64, slots []string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation(generationKey(doctorID, date)) != generation {
		return false, nil
	}

	stored := make([]string, len(slots))
	copy(stored, slots)
	c.store.SetDefault(slotKey(doctorID, date), stored)
	return true, nil
}

func (c *MemoryCache) Invalidate(ctx context.Context, doctorID uuid.UUID, date string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := generationKey(doctorID, date)
	c.gens.Set(key, c.generation(key)+1, c.genTTL)
	c.store.Delete(slotKey(doctorID, date))
	return nil
}
