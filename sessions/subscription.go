package sessions

import "sync"

// Subscription delivers session changes in the order they happened.
// A nil value on the channel means the session is absent.
type Subscription struct {
	ch        chan *Session
	wake      chan struct{}
	done      chan struct{}
	lock      sync.Mutex
	queue     []*Session
	closeOnce sync.Once
	store     *Store
}

func newSubscription(store *Store) *Subscription {
	return &Subscription{
		ch:    make(chan *Session),
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
		store: store,
	}
}

// C is closed once the subscription is closed.
func (sub *Subscription) C() <-chan *Session {
	return sub.ch
}

func (sub *Subscription) Close() {
	sub.closeOnce.Do(func() {
		sub.store.unsubscribe(sub)
		close(sub.done)
	})
}

// enqueue never blocks, a slow reader only grows its own queue.
func (sub *Subscription) enqueue(s *Session) {
	sub.lock.Lock()
	sub.queue = append(sub.queue, s)
	sub.lock.Unlock()

	select {
	case sub.wake <- struct{}{}:
	default:
	}
}

func (sub *Subscription) pump() {
	defer close(sub.ch)
	for {
		sub.lock.Lock()
		if len(sub.queue) == 0 {
			sub.lock.Unlock()
			select {
			case <-sub.wake:
				continue
			case <-sub.done:
				return
			}
		}
		next := sub.queue[0]
		sub.queue[0] = nil
		sub.queue = sub.queue[1:]
		sub.lock.Unlock()

		select {
		case sub.ch <- next:
		case <-sub.done:
			return
		}
	}
}
