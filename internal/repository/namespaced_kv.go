package repository

import "context"

// Namespaced prefixes every key with a user identifier.
type Namespaced struct {
	inner  KV
	prefix string
}

func NewNamespaced(inner KV, userID string) *Namespaced {
	return &Namespaced{inner: inner, prefix: userID + ":"}
}

func (n *Namespaced) key(k string) string { return n.prefix + k }

func (n *Namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.inner.Get(ctx, n.key(key))
}

func (n *Namespaced) Set(ctx context.Context, key, value string) error {
	return n.inner.Set(ctx, n.key(key), value)
}

func (n *Namespaced) Remove(ctx context.Context, key string) error {
	return n.inner.Remove(ctx, n.key(key))
}

func (n *Namespaced) WithinTx(ctx context.Context, fn func(ctx context.Context, kv KV) error) error {
	return Mutate(ctx, n.inner, func(ctx context.Context, tx KV) error {
		return fn(ctx, &Namespaced{inner: tx, prefix: n.prefix})
	})
}
