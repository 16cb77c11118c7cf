package security

import (
	"github.com/storely/auth-service/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// BcryptHasher salts per call, so hashing the same password twice yields
// different digests that both verify.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domain.ErrHashFailed(err)
	}
	return string(b), nil
}

// Compare returns nil on match. Mismatches and malformed hashes both come
// back as a non-nil error; callers treat either as a failed credential.
func (h *BcryptHasher) Compare(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
