package session

import "sync"

// CancelToken is the one-shot synthesis cancellation handle. Once tripped
// it stays tripped; a fresh token is allocated on each entry into the
// speaking state.
type CancelToken struct {
	once sync.Once
	done chan struct{}
}

// NewCancelToken creates an untripped token.
func NewCancelToken() *CancelToken {
	return &CancelToken{done: make(chan struct{})}
}

// Trip requests cancellation. Idempotent.
func (t *CancelToken) Trip() {
	t.once.Do(func() {
		close(t.done)
	})
}

// Tripped reports whether cancellation has been requested.
func (t *CancelToken) Tripped() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Done is closed when the token trips, so paced waits can abort early.
func (t *CancelToken) Done() <-chan struct{} {
	return t.done
}
