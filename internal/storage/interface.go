package storage

import "github.com/julianstephens/micromind/internal/kv"

// Provider is a key-value backend with an explicit lifecycle.
type Provider interface {
	kv.Store

	// Lifecycle
	Init() error
	Load() error

	// Utils
	Path() string
}
