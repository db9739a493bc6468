// Package kv provides the key-value substrate entries and settings are persisted in.
//
// Every backend stores opaque byte values under string keys and notifies
// in-process subscribers after each successful Set. File-backed stores can
// additionally pick up writes from other processes through Watch.
package kv

import (
	"bytes"
	"errors"
	"sync"
)

var (
	// ErrNotFound is returned by Get when the key has never been set
	ErrNotFound = errors.New("key not found")
	// ErrNotInitialized is returned by Load when the backing file does not exist yet
	ErrNotInitialized = errors.New("storage not initialized")
)

// Store is a persistent get/set/subscribe key-value store.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	// Subscribe registers fn to be called with the new value of key after it changes.
	// The returned function removes the subscription.
	Subscribe(key string, fn func(value []byte)) (cancel func())
	Close() error
}

// Refresher is implemented by stores that can re-read their backing medium and
// notify subscribers of values written by someone else.
type Refresher interface {
	Refresh() error
}

// Notifier fans out value changes to subscribers. Backends embed it.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]func([]byte)
	last map[string][]byte
}

// Subscribe registers fn for key.
func (n *Notifier) Subscribe(key string, fn func(value []byte)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.subs == nil {
		n.subs = make(map[string]map[int]func([]byte))
	}
	if n.subs[key] == nil {
		n.subs[key] = make(map[int]func([]byte))
	}
	id := n.next
	n.next++
	n.subs[key][id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs[key], id)
	}
}

// Publish records value as the latest for key and calls every subscriber.
// Callbacks run outside the lock so they may call back into the store.
func (n *Notifier) Publish(key string, value []byte) {
	n.mu.Lock()
	if n.last == nil {
		n.last = make(map[string][]byte)
	}
	n.last[key] = clone(value)
	fns := make([]func([]byte), 0, len(n.subs[key]))
	for _, fn := range n.subs[key] {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(clone(value))
	}
}

// Refresh re-reads every subscribed key through get and publishes the ones
// whose value differs from the last published value.
func (n *Notifier) Refresh(get func(key string) ([]byte, error)) error {
	n.mu.Lock()
	keys := make([]string, 0, len(n.subs))
	for key, fns := range n.subs {
		if len(fns) > 0 {
			keys = append(keys, key)
		}
	}
	n.mu.Unlock()

	for _, key := range keys {
		value, err := get(key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}

		n.mu.Lock()
		prev, seen := n.last[key]
		n.mu.Unlock()
		if seen && bytes.Equal(prev, value) {
			continue
		}
		n.Publish(key, value)
	}
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
