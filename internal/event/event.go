// Package event provides a simple synchronous observer list. Subscribers are
// invoked in subscription order on the caller's goroutine; the viewer runs
// everything on the single UI task so no locking is needed here.
package event

// Feed is an ordered list of subscribers for one event payload type.
type Feed[T any] struct {
	subs []*subscriber[T]
}

type subscriber[T any] struct {
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it again.
func (f *Feed[T]) Subscribe(fn func(T)) (cancel func()) {
	s := &subscriber[T]{fn: fn}
	f.subs = append(f.subs, s)
	return func() {
		for i, cur := range f.subs {
			if cur == s {
				f.subs = append(f.subs[:i], f.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish invokes every subscriber with v, in subscription order.
func (f *Feed[T]) Publish(v T) {
	// Copy so a subscriber unsubscribing mid-publish cannot skip others.
	subs := make([]*subscriber[T], len(f.subs))
	copy(subs, f.subs)
	for _, s := range subs {
		s.fn(v)
	}
}

// Len returns the number of active subscribers.
func (f *Feed[T]) Len() int { return len(f.subs) }
