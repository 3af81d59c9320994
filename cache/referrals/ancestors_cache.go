package referrals

import (
	"sync"

	"gitlab.com/lingzhi-platform/contribution_api/model"
)

// Cache keeps the resolved upstream chain of every user in memory so the
// commission engine never walks the referrer column more than once per user.
// Entries are invalidated when a new referral edge is linked.
type Cache struct {
	ancestors map[uint64][]model.ReferralAncestor
	lock      *sync.RWMutex
}

var cache *Cache

func init() {
	cache = &Cache{
		ancestors: make(map[uint64][]model.ReferralAncestor),
		lock:      &sync.RWMutex{},
	}
}

// GetAncestors returns the cached upstream chain and whether it was present
func GetAncestors(userID uint64) ([]model.ReferralAncestor, bool) {
	cache.lock.RLock()
	defer cache.lock.RUnlock()
	chain, ok := cache.ancestors[userID]
	if !ok {
		return nil, false
	}
	out := make([]model.ReferralAncestor, len(chain))
	copy(out, chain)
	return out, true
}

// SetAncestors stores the resolved upstream chain of a user
func SetAncestors(userID uint64, chain []model.ReferralAncestor) {
	stored := make([]model.ReferralAncestor, len(chain))
	copy(stored, chain)
	cache.lock.Lock()
	cache.ancestors[userID] = stored
	cache.lock.Unlock()
}

// Invalidate drops the cached chain of a user, forcing a re-walk on the
// next resolution
func Invalidate(userID uint64) {
	cache.lock.Lock()
	delete(cache.ancestors, userID)
	cache.lock.Unlock()
}

// Flush clears the whole cache. Called after a new edge is linked: the new
// edge also extends the chains of the referee's existing downstream users,
// so a single-key invalidation is not enough.
func Flush() {
	cache.lock.Lock()
	cache.ancestors = make(map[uint64][]model.ReferralAncestor)
	cache.lock.Unlock()
}
