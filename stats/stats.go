// Package stats counts page views without storing anything that could
// identify a reader: visitors are deduplicated per post and day through
// a salted hash of IP and user agent, and only daily counters persist.
package stats

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
)

// salt holds the per-installation random salt for visitor hashing,
// protected by sync.Once.
var salt struct {
	once  sync.Once
	value string
}

// InitSalt loads or generates a persistent salt for visitor hashing.
// Must be called once at startup before any views are recorded.
func InitSalt(store *Store) error {
	var initErr error
	salt.once.Do(func() {
		s, err := store.GetSetting("hash_salt")
		if err != nil {
			initErr = fmt.Errorf("read hash salt: %w", err)
			return
		}
		if s == "" {
			b := make([]byte, 32)
			if _, err := rand.Read(b); err != nil {
				initErr = fmt.Errorf("generate salt: %w", err)
				return
			}
			s = hex.EncodeToString(b)
			if err := store.SetSetting("hash_salt", s); err != nil {
				initErr = fmt.Errorf("store hash salt: %w", err)
				return
			}
		}
		salt.value = s
	})
	return initErr
}

// visitorHash derives the anonymous daily visitor identity. Including
// the day in the hash means the same reader yields a different value
// tomorrow, so no cross-day profile can be built.
func visitorHash(ip, userAgent, day string) string {
	sum := sha256.Sum256([]byte(salt.value + "|" + ip + "|" + userAgent + "|" + day))
	return hex.EncodeToString(sum[:16])
}
