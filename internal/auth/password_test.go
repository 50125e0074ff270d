package auth

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	hasher := NewHasher(bcrypt.MinCost, 4)
	ctx := context.Background()

	hash, err := hasher.Hash(ctx, "vulpkanin")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if hash == "vulpkanin" {
		t.Fatal("hash equals plaintext")
	}

	if !hasher.Verify(ctx, "vulpkanin", hash) {
		t.Fatal("expected matching password to verify")
	}
	if hasher.Verify(ctx, "vulpkanin!", hash) {
		t.Fatal("expected non-matching password to fail")
	}
}

func TestHashesAreSalted(t *testing.T) {
	t.Parallel()

	hasher := NewHasher(bcrypt.MinCost, 4)
	ctx := context.Background()

	first, err := hasher.Hash(ctx, "vulpkanin")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	second, err := hasher.Hash(ctx, "vulpkanin")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password are identical")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	t.Parallel()

	hasher := NewHasher(bcrypt.MinCost, 4)
	if hasher.Verify(context.Background(), "whatever", "not-a-bcrypt-hash") {
		t.Fatal("expected malformed hash to fail verification")
	}
}

func TestVerifyOldCostStillWorks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	old := NewHasher(bcrypt.MinCost, 4)
	hash, err := old.Hash(ctx, "vulpkanin")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	// Raising the cost must not invalidate hashes produced at a lower one.
	raised := NewHasher(bcrypt.MinCost+2, 4)
	if !raised.Verify(ctx, "vulpkanin", hash) {
		t.Fatal("expected hash from lower cost to verify")
	}
}

func TestHashCanceledContext(t *testing.T) {
	t.Parallel()

	hasher := NewHasher(bcrypt.MinCost, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := hasher.Hash(ctx, "vulpkanin"); err == nil {
		t.Fatal("expected error when context is already canceled")
	}
}
