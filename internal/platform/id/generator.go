package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generator creates opaque IDs and pick-token credentials.
type Generator interface {
	NewID() (string, error)
	// NewToken mints an alphanumeric credential of the given length,
	// suitable for embedding in a pick link.
	NewToken(length int) (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

func (g *RandomGenerator) NewToken(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("token length must be > 0")
	}

	out := make([]byte, length)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random index: %w", err)
		}
		out[i] = tokenAlphabet[n.Int64()]
	}

	return string(out), nil
}
