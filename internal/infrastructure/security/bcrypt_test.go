package security

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/storely/auth-service/internal/domain"
)

func TestNewBcryptHasher_DefaultCostWhenNonPositive(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(0)
	if h.cost != bcrypt.DefaultCost {
		t.Fatalf("expected cost=%d, got %d", bcrypt.DefaultCost, h.cost)
	}
}

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(4) // lower cost for test speed
	pw := "P@ssw0rd123!"

	hash, err := h.Hash(pw)
	if err != nil {
		t.Fatalf("hash err: %v", err)
	}
	if hash == "" || hash == pw {
		t.Fatalf("bad hash %q", hash)
	}

	if err := h.Compare(hash, pw); err != nil {
		t.Fatalf("compare should succeed, got %v", err)
	}
	if err := h.Compare(hash, "wrong-password"); err == nil {
		t.Fatalf("expected mismatch error, got nil")
	}
}

func TestBcryptHasher_SamePasswordDifferentDigests(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(4)

	h1, err := h.Hash("same")
	if err != nil {
		t.Fatalf("hash err: %v", err)
	}
	h2, err := h.Hash("same")
	if err != nil {
		t.Fatalf("hash err: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected per-call salting, got identical digests")
	}
	if h.Compare(h1, "same") != nil || h.Compare(h2, "same") != nil {
		t.Fatalf("both digests must verify the original password")
	}
}

func TestBcryptHasher_MalformedHashIsMismatch(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(4)
	if err := h.Compare("not-a-bcrypt-hash", "pw"); err == nil {
		t.Fatalf("expected error for malformed hash, got nil")
	}
}

func TestBcryptHasher_Hash_TooHighCost_ReturnsDomainHashFailed(t *testing.T) {
	t.Parallel()

	// bcrypt errors when cost is out of range
	h := &BcryptHasher{cost: 100}

	_, err := h.Hash("pw")
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !domain.Is(err, "hash_failed") {
		t.Fatalf("expected hash_failed, got %v", err)
	}
}
