package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard [Keyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<id>".
func (DefaultKeyer) LayoutKey(id string) string { return "layout:" + id }

// ListKey returns "layouts:<owner>".
func (DefaultKeyer) ListKey(ownerID string) string { return "layouts:" + ownerID }

// IconKey returns "icon:<sha256 of url>" so that arbitrary URLs yield safe
// keys.
func (DefaultKeyer) IconKey(url string) string { return "icon:" + digest(url) }

// ScopedKeyer prefixes every key of an inner [Keyer], isolating
// environments that share one cache backend.
//
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer selects
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) LayoutKey(id string) string    { return k.prefix + k.inner.LayoutKey(id) }
func (k *ScopedKeyer) ListKey(ownerID string) string { return k.prefix + k.inner.ListKey(ownerID) }
func (k *ScopedKeyer) IconKey(url string) string     { return k.prefix + k.inner.IconKey(url) }

// digest returns the hex SHA-256 of s.
func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
