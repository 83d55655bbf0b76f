package kcommon

import (
	"sync/atomic"
	"time"
)

var (
	currentTimeProvider TimeProvider = NewSystemTimeProvider()
)

// TimeProvider: all solver clocks go through this, so tests can drive time explicitly.
type TimeProvider interface {
	GetWallTimeMs() int64
	GetMonoTimeMs() int64
}

func RunWithTimeProvider(tp TimeProvider, fn func()) {
	old := currentTimeProvider
	currentTimeProvider = tp
	defer func() {
		currentTimeProvider = old
	}()
	fn()
}

func GetWallTimeMs() int64 {
	return currentTimeProvider.GetWallTimeMs()
}

// GetMonoTimeMs: monotonic, only meaningful as a difference between two readings.
func GetMonoTimeMs() int64 {
	return currentTimeProvider.GetMonoTimeMs()
}

// SystemTimeProvider: implements TimeProvider interface
type SystemTimeProvider struct {
	startTime time.Time
}

func NewSystemTimeProvider() *SystemTimeProvider {
	return &SystemTimeProvider{
		startTime: time.Now(),
	}
}

func (provider *SystemTimeProvider) GetWallTimeMs() int64 {
	return time.Now().UnixMilli()
}

func (provider *SystemTimeProvider) GetMonoTimeMs() int64 {
	return time.Since(provider.startTime).Milliseconds()
}

// MockTimeProvider: implements TimeProvider interface. Safe for concurrent readers.
type MockTimeProvider struct {
	wallTime atomic.Int64
	monoTime atomic.Int64
}

func NewMockTimeProvider() *MockTimeProvider {
	return &MockTimeProvider{}
}

func (provider *MockTimeProvider) GetWallTimeMs() int64 {
	return provider.wallTime.Load()
}

func (provider *MockTimeProvider) GetMonoTimeMs() int64 {
	return provider.monoTime.Load()
}

func (provider *MockTimeProvider) SetTimeMs(timeMs int64) *MockTimeProvider {
	provider.monoTime.Store(timeMs)
	provider.wallTime.Store(timeMs)
	return provider
}

func (provider *MockTimeProvider) AddTimeMs(diffMs int64) *MockTimeProvider {
	provider.monoTime.Add(diffMs)
	provider.wallTime.Add(diffMs)
	return provider
}
