package planning

import (
	"sync"

	"github.com/google/uuid"
)

// DirtySet collects configurations and raw materials whose requirement
// figures are stale. Enqueueing never blocks and de-duplicates, so a burst
// of stock mutations on the same configuration costs one recomputation. The
// worker drains the whole set per pass.
//
// Materials are flagged separately from configurations because a
// bill-of-materials edit can orphan a material: once the edge is gone, no
// configuration recomputation reaches it anymore, yet its cascaded
// requirement still has to reconcile to the new graph.
type DirtySet struct {
	mu            sync.Mutex
	configIDs     map[uuid.UUID]struct{}
	materialIDs   map[uuid.UUID]struct{}
	fullRequested bool
	wake          chan struct{}
}

// NewDirtySet creates an empty dirty set
func NewDirtySet() *DirtySet {
	return &DirtySet{
		configIDs:   make(map[uuid.UUID]struct{}),
		materialIDs: make(map[uuid.UUID]struct{}),
		wake:        make(chan struct{}, 1),
	}
}

// MarkConfigs flags configurations for recomputation and wakes the worker
func (d *DirtySet) MarkConfigs(ids ...uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	d.mu.Lock()
	for _, id := range ids {
		d.configIDs[id] = struct{}{}
	}
	d.mu.Unlock()
	d.signal()
}

// MarkMaterials flags raw materials for cascade recomputation and wakes the
// worker
func (d *DirtySet) MarkMaterials(ids ...uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	d.mu.Lock()
	for _, id := range ids {
		d.materialIDs[id] = struct{}{}
	}
	d.mu.Unlock()
	d.signal()
}

// MarkFull requests a full reconciliation pass
func (d *DirtySet) MarkFull() {
	d.mu.Lock()
	d.fullRequested = true
	d.mu.Unlock()
	d.signal()
}

// Drain removes and returns the pending work. full takes precedence: one full
// pass covers every flagged configuration and material.
func (d *DirtySet) Drain() (configIDs, materialIDs []uuid.UUID, full bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	full = d.fullRequested
	d.fullRequested = false
	if !full {
		configIDs = make([]uuid.UUID, 0, len(d.configIDs))
		for id := range d.configIDs {
			configIDs = append(configIDs, id)
		}
		materialIDs = make([]uuid.UUID, 0, len(d.materialIDs))
		for id := range d.materialIDs {
			materialIDs = append(materialIDs, id)
		}
	}
	d.configIDs = make(map[uuid.UUID]struct{})
	d.materialIDs = make(map[uuid.UUID]struct{})
	return configIDs, materialIDs, full
}

// Empty reports whether no work is pending
func (d *DirtySet) Empty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.fullRequested && len(d.configIDs) == 0 && len(d.materialIDs) == 0
}

// Wake returns the channel the worker blocks on
func (d *DirtySet) Wake() <-chan struct{} {
	return d.wake
}

func (d *DirtySet) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}
