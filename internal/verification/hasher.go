package verification

import "golang.org/x/crypto/bcrypt"

// CodeHasher turns a plain code into the value kept by a CodeStore.
type CodeHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) bool
}

type BcryptCodeHasher struct {
	cost int
}

func NewBcryptCodeHasher(cost int) *BcryptCodeHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptCodeHasher{cost: cost}
}

func (h *BcryptCodeHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptCodeHasher) Verify(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
