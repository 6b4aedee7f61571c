// Package iocache persists the record snapshot that backs dashboard requests.
package iocache

import (
	"sync"

	"github.com/huangsam/repopulse/internal/contract"
)

// CacheStoreManager manages the snapshot store instance.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	snapshot     contract.SnapshotStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetSnapshotStore returns the snapshot store.
func (mgr *CacheStoreManager) GetSnapshotStore() contract.SnapshotStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.snapshot
}
