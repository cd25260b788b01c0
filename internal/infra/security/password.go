package security

import "golang.org/x/crypto/bcrypt"

// BcryptHasher hashes account passwords. Cost outside bcrypt's valid range
// falls back to the library default.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.effectiveCost())
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare returns nil when the password matches the stored hash. The error is
// deliberately opaque; callers map any mismatch to invalid-credentials.
func (h BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (h BcryptHasher) effectiveCost() int {
	if h.Cost >= bcrypt.MinCost && h.Cost <= bcrypt.MaxCost {
		return h.Cost
	}
	return bcrypt.DefaultCost
}
