package klogging

import "os"

var (
	currentOsProvider OsProvider = &SystemOsProvider{}
)

type OsProvider interface {
	Exit(code int)
}

// OsExit is called after a fatal entry got logged.
func OsExit(code int) {
	currentOsProvider.Exit(code)
}

type SystemOsProvider struct {
}

func (provider *SystemOsProvider) Exit(code int) {
	os.Exit(code)
}

// MockOsProvider records exit codes instead of exiting. Test only.
type MockOsProvider struct {
	ExitCodes []int
}

func NewMockOsProvider() *MockOsProvider {
	return &MockOsProvider{}
}

func (provider *MockOsProvider) SetAsDefault() *MockOsProvider {
	currentOsProvider = provider
	return provider
}

func (provider *MockOsProvider) Exit(code int) {
	provider.ExitCodes = append(provider.ExitCodes, code)
}

func (provider *SystemOsProvider) setAsDefault() {
	currentOsProvider = provider
}
