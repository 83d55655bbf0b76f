package kerror

type ErrorCode string

const (
	EC_OK                  ErrorCode = "OK"
	EC_UNKNOWN             ErrorCode = "UNKNOWN"
	EC_INVALID_PARAMETER   ErrorCode = "INVALID_PARAMETER"
	EC_CONFIG_ERROR        ErrorCode = "CONFIG_ERROR"
	EC_SCORE_CORRUPTION    ErrorCode = "SCORE_CORRUPTION"
	EC_CALCULATION_FAILURE ErrorCode = "CALCULATION_FAILURE"
	EC_ILLEGAL_STATE       ErrorCode = "ILLEGAL_STATE"
	EC_INTERNAL_ERROR      ErrorCode = "INTERNAL_ERROR"
	EC_NOT_FOUND           ErrorCode = "NOT_FOUND"
)

func (code ErrorCode) String() string {
	return string(code)
}

// IsFatal: a fatal code means the current solving run cannot continue on trustworthy data.
// The caller decides whether to abort the whole process.
func (code ErrorCode) IsFatal() bool {
	switch code {
	case EC_SCORE_CORRUPTION, EC_CALCULATION_FAILURE, EC_ILLEGAL_STATE:
		return true
	}
	return false
}
