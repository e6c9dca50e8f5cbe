package control

import "sync"

// Queue collects actions from any goroutine until the owner drains them.
type Queue struct {
	mu      sync.Mutex
	pending []Action
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Push(a Action) {
	q.mu.Lock()
	q.pending = append(q.pending, a)
	q.mu.Unlock()
}

// Drain returns the pending actions in arrival order and empties the queue.
func (q *Queue) Drain() []Action {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
