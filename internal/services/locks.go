package services

import "sync"

// ProjectLocks serializes envelope mutations per project: the envelope
// of a project may be mutated by at most one in-flight operation at a
// time, while operations on different projects proceed in parallel.
// Locks are never evicted; the per-project footprint is one mutex.
type ProjectLocks struct {
	locks sync.Map // projectID -> *sync.Mutex
}

// NewProjectLocks creates an empty lock table.
func NewProjectLocks() *ProjectLocks {
	return &ProjectLocks{}
}

// Lock acquires the mutex for the given project and returns its unlock
// function.
func (l *ProjectLocks) Lock(projectID string) (unlock func()) {
	v, _ := l.locks.LoadOrStore(projectID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
