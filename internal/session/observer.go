package session

import "sync"

// Source is the stream of session changes an Observer watches. *Store
// satisfies it; tests use a stub.
type Source interface {
	Subscribe() chan *Session
	Unsubscribe(ch chan *Session)
}

// Observer watches a session Source and tracks the latest emission.
// It starts in a loading state that clears on the first emission of
// either kind, so consumers never act before the provider has reported
// initial state. When the stream reports absence, the configured
// onSignedOut callback fires (the dashboard uses this to bounce the
// browser back to the sign-in screen).
type Observer struct {
	source      Source
	ch          chan *Session
	onSignedOut func()

	mu      sync.Mutex
	loading bool
	current *Session
	closed  bool
}

// NewObserver subscribes to src and begins observing. onSignedOut may be
// nil. Call Close when the owning screen goes away.
func NewObserver(src Source, onSignedOut func()) *Observer {
	o := &Observer{
		source:      src,
		ch:          src.Subscribe(),
		onSignedOut: onSignedOut,
		loading:     true,
	}
	go o.run()
	return o
}

func (o *Observer) run() {
	for sess := range o.ch {
		o.mu.Lock()
		if o.closed {
			// Teardown raced with an in-flight emission; the discarded
			// screen must not be mutated.
			o.mu.Unlock()
			continue
		}
		o.loading = false
		o.current = sess
		signedOut := sess == nil
		o.mu.Unlock()

		if signedOut && o.onSignedOut != nil {
			o.onSignedOut()
		}
	}
}

// Loading reports whether the first emission has arrived yet.
func (o *Observer) Loading() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.loading
}

// Current returns the latest observed session, or nil.
func (o *Observer) Current() *Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// Close unsubscribes from the source. Emissions already in flight are
// discarded; no state changes after Close returns.
func (o *Observer) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	o.mu.Unlock()

	o.source.Unsubscribe(o.ch)
}
