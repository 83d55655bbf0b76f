package kcommon

import (
	"context"
	crypto_rand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"strconv"
	"sync"

	"github.com/xinkaiwang/solvercore/klogging"
)

const defaultCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// SafeRand: seeded random source, safe for concurrent use.
// A fixed seed makes a solving run reproducible.
type SafeRand struct {
	mu         sync.Mutex
	seed       int64
	seededRand *rand.Rand
}

func NewSafeRand(seed int64) *SafeRand {
	return &SafeRand{
		seed:       seed,
		seededRand: rand.New(rand.NewSource(seed)),
	}
}

// NewRandomSeededRand picks the seed from crypto/rand.
func NewRandomSeededRand(ctx context.Context) *SafeRand {
	seed := int64(0)
	buf := make([]byte, 8)
	if _, err := crypto_rand.Read(buf); err != nil {
		klogging.Warning(ctx).WithError(err).Log("CryptoRandSeedFailed", "fall back to seed 0")
	} else {
		seed = int64(binary.BigEndian.Uint64(buf))
	}
	klogging.Debug(ctx).With("seed", strconv.FormatInt(seed, 16)).Log("RandSeeded", "")
	return NewSafeRand(seed)
}

func (sr *SafeRand) Seed() int64 {
	return sr.seed
}

func (sr *SafeRand) Run(op func(*rand.Rand)) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	op(sr.seededRand)
}

// Intn: pseudo-random number in [0,n)
func (sr *SafeRand) Intn(n int) (ret int) {
	sr.Run(func(r *rand.Rand) {
		ret = r.Intn(n)
	})
	return
}

func (sr *SafeRand) Float64() (ret float64) {
	sr.Run(func(r *rand.Rand) {
		ret = r.Float64()
	})
	return
}

func (sr *SafeRand) StringWithCharset(length int, charset string) string {
	b := make([]byte, length)
	sr.Run(func(r *rand.Rand) {
		for i := range b {
			b[i] = charset[r.Intn(len(charset))]
		}
	})
	return string(b)
}

func (sr *SafeRand) RandomString(length int) string {
	return sr.StringWithCharset(length, defaultCharset)
}
