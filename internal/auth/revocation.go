package auth

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// RevocationList remembers the ids of logged out tokens until they would have
// expired anyway.
type RevocationList struct {
	cache *expirable.LRU[string, time.Time]
}

func NewRevocationList(size int, ttl time.Duration) *RevocationList {
	return &RevocationList{
		cache: expirable.NewLRU[string, time.Time](size, nil, ttl),
	}
}

func (l *RevocationList) Revoke(tokenID string, expiresAt time.Time) {
	if tokenID == "" {
		return
	}
	l.cache.Add(tokenID, expiresAt)
}

func (l *RevocationList) IsRevoked(tokenID string) bool {
	return l.cache.Contains(tokenID)
}
