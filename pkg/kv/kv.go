// Package kv is the browsing-context key-value storage used by the cart,
// order log and customer profile. Values are opaque bytes; callers own the
// encoding. Writes are whole-value replacements, so concurrent writers to
// the same key are last-write-wins.
package kv

import (
	"context"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("kv: key not found")

type Store interface {
	// Get returns ErrNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete of an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Namespaced scopes every key of s under the given segments, joined with ":".
func Namespaced(s Store, segments ...string) Store {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg = strings.TrimSpace(seg); seg != "" {
			parts = append(parts, seg)
		}
	}
	if len(parts) == 0 {
		return s
	}
	return &namespaced{inner: s, prefix: strings.Join(parts, ":") + ":"}
}

type namespaced struct {
	inner  Store
	prefix string
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key string, value []byte) error {
	return n.inner.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	return n.inner.Delete(ctx, n.prefix+key)
}
