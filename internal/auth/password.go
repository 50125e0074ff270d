package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// Hasher hashes and verifies passwords with bcrypt. Both operations are
// deliberately expensive, so in-flight work is bounded by a weighted
// semaphore to keep a burst of logins from starving the rest of the process.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewHasher constructs a Hasher. Costs outside bcrypt's allowed range fall
// back to the library default; maxConcurrent below 1 falls back to 1.
func NewHasher(cost, maxConcurrent int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Hasher{
		cost: cost,
		sem:  semaphore.NewWeighted(int64(maxConcurrent)),
	}
}

// Hash returns the bcrypt hash of the plaintext. The salt is generated
// internally per call and encoded into the output together with the cost, so
// old hashes stay verifiable after the cost is raised.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether the plaintext matches the hash. A malformed hash is
// treated the same as a mismatch.
func (h *Hasher) Verify(ctx context.Context, password, hash string) bool {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false
	}
	defer h.sem.Release(1)

	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
