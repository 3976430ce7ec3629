// Package store persists hub models, tags, snapshots, predictions and run audits.
package store

import (
	"sync"

	"github.com/huangsam/hubtrend/internal/contract"
)

// HubStoreManager manages the run and model stores.
type HubStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	runs         contract.RunStore
	models       contract.ModelStore
}

var _ contract.StoreManager = &HubStoreManager{} // Compile-time check

// GetRunStore returns the RunStore.
func (mgr *HubStoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}

// GetModelStore returns the ModelStore.
func (mgr *HubStoreManager) GetModelStore() contract.ModelStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.models
}
