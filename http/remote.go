package http

import "sync"

// RemoteAddr is a diagnostic peer address that is either unknown or resolved.
//
// It resolves at most once: the first Resolve wins and later calls are
// ignored. Seal freezes the value so notifications that arrive after the
// outcome was reported cannot change what the caller saw. The zero value is
// unknown and ready to use.
type RemoteAddr struct {
	mu     sync.Mutex
	addr   string
	known  bool
	sealed bool
}

// Resolve records addr if nothing was recorded yet and the value is not
// sealed. It reports whether addr was recorded.
func (r *RemoteAddr) Resolve(addr string) bool {
	if addr == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.known || r.sealed {
		return false
	}
	r.addr = addr
	r.known = true
	return true
}

// Seal stops further resolution and returns the current state.
func (r *RemoteAddr) Seal() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
	return r.addr, r.known
}

// Get returns the address and whether it is known.
func (r *RemoteAddr) Get() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.addr, r.known
}
