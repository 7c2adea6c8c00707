// Package secure holds sensitive material in locked, zeroable memory and
// seals seed files with age passphrase encryption.
package secure

import (
	"runtime"
	"sync"
)

// Bytes wraps a sensitive byte slice. The backing memory is mlocked when
// the platform allows it and zeroed on Destroy.
type Bytes struct {
	data   []byte
	locked bool
	mu     sync.Mutex
}

// NewBytes allocates size bytes of secure memory.
func NewBytes(size int) *Bytes {
	b := &Bytes{data: make([]byte, size)}

	// Locking is best effort; RLIMIT_MEMLOCK is often tiny in containers.
	b.locked = mlock(b.data)

	runtime.SetFinalizer(b, func(s *Bytes) {
		s.Destroy()
	})

	return b
}

// FromSlice copies data into secure memory. The caller still owns data
// and should zero it.
func FromSlice(data []byte) *Bytes {
	b := NewBytes(len(data))
	copy(b.data, data)
	return b
}

// Bytes returns the underlying slice, or nil after Destroy.
func (s *Bytes) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// IsLocked reports whether the memory is mlocked.
func (s *Bytes) IsLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// Len returns the length of the data.
func (s *Bytes) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Destroy zeros and unlocks the memory. Safe to call more than once.
func (s *Bytes) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return
	}

	Zero(s.data)
	if s.locked {
		munlock(s.data)
		s.locked = false
	}
	s.data = nil

	runtime.SetFinalizer(s, nil)
}

// Zero overwrites b with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
