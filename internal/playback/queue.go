package playback

import "github.com/llehouerou/moosack/internal/source"

// Queue is a FIFO of sources awaiting promotion.
type Queue struct {
	items []source.Source
}

// Push appends src at the tail.
func (q *Queue) Push(src source.Source) {
	q.items = append(q.items, src)
}

// Pop removes and returns the head.
func (q *Queue) Pop() (source.Source, bool) {
	if len(q.items) == 0 {
		return source.Source{}, false
	}
	head := q.items[0]
	q.items[0] = source.Source{}
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return head, true
}

// Len returns the number of queued sources.
func (q *Queue) Len() int { return len(q.items) }

// Clear drops every queued source.
func (q *Queue) Clear() { q.items = nil }

// Items returns a copy of the queued sources, head first.
func (q *Queue) Items() []source.Source {
	return append([]source.Source(nil), q.items...)
}
