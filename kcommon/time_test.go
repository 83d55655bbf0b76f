package kcommon

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockTimeProvider(t *testing.T) {
	mockTime := NewMockTimeProvider().SetTimeMs(1000)
	RunWithTimeProvider(mockTime, func() {
		assert.Equal(t, int64(1000), GetMonoTimeMs())
		mockTime.AddTimeMs(250)
		assert.Equal(t, int64(1250), GetMonoTimeMs())
		assert.Equal(t, int64(1250), GetWallTimeMs())
	})
	// restored
	_, isSystem := currentTimeProvider.(*SystemTimeProvider)
	assert.True(t, isSystem)
}

func TestSystemTimeProviderIsMonotonic(t *testing.T) {
	tp := NewSystemTimeProvider()
	t1 := tp.GetMonoTimeMs()
	t2 := tp.GetMonoTimeMs()
	assert.GreaterOrEqual(t, t2, t1)
	assert.Greater(t, tp.GetWallTimeMs(), int64(0))
}

func TestSafeRandReproducible(t *testing.T) {
	r1 := NewSafeRand(42)
	r2 := NewSafeRand(42)
	for i := 0; i < 20; i++ {
		assert.Equal(t, r1.Intn(1000), r2.Intn(1000))
	}
	assert.Equal(t, r1.RandomString(8), r2.RandomString(8))
	assert.Equal(t, int64(42), r1.Seed())

	var seen int
	r1.Run(func(r *rand.Rand) {
		seen = r.Intn(10)
	})
	assert.GreaterOrEqual(t, seen, 0)
	assert.Less(t, seen, 10)
}
