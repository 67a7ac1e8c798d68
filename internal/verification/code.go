package verification

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const CodeLength = 6

// Format selects the alphabet of generated codes.
type Format string

const (
	FormatNumeric      Format = "numeric"
	FormatAlphanumeric Format = "alphanumeric"
)

const (
	numericAlphabet      = "0123456789"
	alphanumericAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// ParseFormat maps user input to a Format; empty means numeric.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatNumeric:
		return FormatNumeric, nil
	case FormatAlphanumeric:
		return FormatAlphanumeric, nil
	default:
		return "", fmt.Errorf("%w: format %q", ErrValidation, s)
	}
}

func (f Format) alphabet() string {
	if f == FormatAlphanumeric {
		return alphanumericAlphabet
	}
	return numericAlphabet
}

// GenerateCode returns a CodeLength code drawn from crypto/rand.
func GenerateCode(f Format) (string, error) {
	alphabet := f.alphabet()
	max := big.NewInt(int64(len(alphabet)))

	var b strings.Builder
	b.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(alphabet[n.Int64()])
	}
	return b.String(), nil
}
