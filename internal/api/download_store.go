package api

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

type resultDownload struct {
	filePath  string
	runID     string
	expiresAt time.Time
}

// downloadStore hands out one-shot tokens for annotated result files
// parked in the temp directory.
type downloadStore struct {
	mu    sync.Mutex
	items map[string]resultDownload
}

func newDownloadStore() *downloadStore {
	return &downloadStore{
		items: make(map[string]resultDownload),
	}
}

func (s *downloadStore) put(filePath, runID string, ttl time.Duration) (token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	token = newRandomToken(24)
	s.items[token] = resultDownload{
		filePath:  filePath,
		runID:     runID,
		expiresAt: time.Now().Add(ttl),
	}
	return token
}

func (s *downloadStore) get(token string) (resultDownload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	v, ok := s.items[token]
	return v, ok
}

func (s *downloadStore) delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, token)
}

func (s *downloadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
		}
	}
}

func newRandomToken(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return base64.RawURLEncoding.EncodeToString([]byte(time.Now().String()))
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
