package session

import "sync"

// Store holds the single current session and broadcasts every change to
// subscribers. At most one session is current at any time; a nil value
// means no one is signed in. Only the provider client (and the OAuth
// callback) write to the store; everything else observes.
type Store struct {
	mu          sync.RWMutex
	current     *Session
	subscribers map[chan *Session]struct{}
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{subscribers: make(map[chan *Session]struct{})}
}

// Current returns the most recently observed session, or nil if absent.
func (s *Store) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Set records a new current session and notifies subscribers.
func (s *Store) Set(sess *Session) {
	s.mu.Lock()
	s.current = sess
	s.broadcastLocked(sess)
	s.mu.Unlock()
}

// Clear removes the current session and notifies subscribers with nil.
func (s *Store) Clear() {
	s.Set(nil)
}

// Subscribe returns a channel that receives the current session state
// immediately, then again on every change. A nil emission means signed out.
func (s *Store) Subscribe() chan *Session {
	ch := make(chan *Session, 8)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	current := s.current
	s.mu.Unlock()

	// Initial emission so subscribers never wait for the next change to
	// learn the current state.
	ch <- current
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (s *Store) Unsubscribe(ch chan *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscribers[ch]; !ok {
		return
	}
	delete(s.subscribers, ch)
	close(ch)
}

func (s *Store) broadcastLocked(sess *Session) {
	for ch := range s.subscribers {
		select {
		case ch <- sess:
		default:
			// Slow subscriber; drop rather than block the writer.
		}
	}
}
