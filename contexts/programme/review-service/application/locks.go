package application

import "sync"

// ReviewerLocks serializes queue reads and writes per reviewer. Two requests
// from the same reviewer (for example two browser tabs) race on the cached
// order; holding the reviewer's lock for the whole read-modify-write keeps
// the order list from losing updates. Different reviewers never contend.
type ReviewerLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewReviewerLocks() *ReviewerLocks {
	return &ReviewerLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *ReviewerLocks) Lock(reviewerID string) func() {
	l.mu.Lock()
	lock, ok := l.locks[reviewerID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[reviewerID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
