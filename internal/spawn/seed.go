package spawn

import (
	"encoding/binary"
	"math/rand/v2"

	"golang.org/x/crypto/blake2b"
)

// Rand is the random source a placement pass draws from.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// PCG stream identifiers. Each consumer of a field seed gets its own stream
// so adding draws to one never shifts another.
const (
	StreamPlacement  uint64 = 1
	StreamIngredient uint64 = 2
)

// NewRand returns a PCG generator for seed on the given stream.
func NewRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// SeedFromPhrase derives a 64-bit seed from a human-readable phrase.
// The first 8 bytes of BLAKE2b-256(phrase), little endian.
func SeedFromPhrase(phrase string) uint64 {
	sum := blake2b.Sum256([]byte(phrase))
	return binary.LittleEndian.Uint64(sum[:8])
}
