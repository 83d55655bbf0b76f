package kerror

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

type Keypair struct {
	K string
	V interface{}
}

type Kerror struct {
	Type      string
	Msg       string
	Details   []Keypair // using array: map don't keep ordering
	Stack     string    // optional, normally only inner most kerror need full stack dump
	CausedBy  error     // optional, maybe a *Kerror, or also possible just an error
	ErrorCode ErrorCode // default=UNKNOWN
}

func Create(errType string, msg string) *Kerror {
	return &Kerror{
		Stack:     GetCallStack(1),
		Type:      errType,
		Msg:       msg,
		ErrorCode: EC_UNKNOWN,
	}
}

// CreateConfigError: configuration problems are detected at build time, stack is not useful there.
func CreateConfigError(errType string, msg string) *Kerror {
	return &Kerror{
		Type:      errType,
		Msg:       msg,
		ErrorCode: EC_CONFIG_ERROR,
	}
}

func (ke *Kerror) Error() string {
	return ke.ShortString()
}

func (ke *Kerror) String() string {
	return ke.FullString()
}

func (ke *Kerror) With(key string, val interface{}) *Kerror {
	ke.Details = append(ke.Details, Keypair{K: key, V: val})
	return ke
}

func (ke *Kerror) WithErrorCode(code ErrorCode) *Kerror {
	ke.ErrorCode = code
	return ke
}

// to make Kerror work with "errors.Is()", "errors.As()"... standard operations
func (ke *Kerror) Unwrap() error {
	return ke.CausedBy
}

func (ke *Kerror) WithoutStack() *Kerror {
	ke.Stack = ""
	return ke
}

func (ke *Kerror) GetType() string {
	return ke.Type
}

// GetDetail returns the first detail value recorded under key.
func (ke *Kerror) GetDetail(key string) (interface{}, bool) {
	for _, item := range ke.Details {
		if item.K == key {
			return item.V, true
		}
	}
	return nil, false
}

func (ke *Kerror) ShortString() string {
	var b strings.Builder
	b.Grow(256)
	ke.ToFullString(&b, false /*withStack*/, false /*withCause*/)
	return b.String()
}

func (ke *Kerror) FullString() string {
	var b strings.Builder
	b.Grow(1000)
	ke.ToFullString(&b, true /*withStack*/, true /*withCause*/)
	return b.String()
}

func (ke *Kerror) CausedByString() string {
	var b strings.Builder
	ke.buildCausedByString(&b, false /*withStack*/, true /*withCause*/)
	return b.String()
}

func (ke *Kerror) ToFullString(b *strings.Builder, withStack, withCause bool) {
	fmt.Fprintf(b, "%s: %s", ke.Type, ke.Msg)
	for _, item := range ke.Details {
		fmt.Fprintf(b, ", %s=%v", item.K, item.V)
	}
	if withStack && ke.Stack != "" {
		fmt.Fprintf(b, ", stack=%s", ke.Stack)
	}
	if withCause && ke.CausedBy != nil {
		fmt.Fprintf(b, ";\n Caused by: ")
		ke.buildCausedByString(b, withStack, withCause)
		fmt.Fprintf(b, "\n")
	}
}

func (ke *Kerror) buildCausedByString(b *strings.Builder, withStack, withCause bool) {
	if ke.CausedBy == nil {
		return
	}
	if cause, ok := ke.CausedBy.(*Kerror); ok {
		cause.ToFullString(b, withStack, withCause)
	} else {
		fmt.Fprintf(b, "%s", ke.CausedBy.Error())
	}
}

func GetCallStack(removeTop int) string {
	stack := string(debug.Stack())
	// skip first few lines, last element is everything else
	split := strings.SplitAfterN(stack, "\n", 6+2*removeTop)
	return split[len(split)-1]
}

// Note: stackTrace is expensive. So you should only attach stack when really needed.
func Wrap(err error, errType, msg string, needStack bool) *Kerror {
	ke := &Kerror{
		Type:      errType,
		Msg:       msg,
		CausedBy:  err,
		ErrorCode: EC_UNKNOWN,
	}
	if inner, ok := err.(*Kerror); ok {
		// keep the most specific code
		ke.ErrorCode = inner.ErrorCode
	} else if needStack {
		ke.Stack = GetCallStack(1)
	}
	return ke
}

// IsErrorCode walks the wrap chain and reports whether any Kerror in it carries code.
func IsErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		var ke *Kerror
		if !errors.As(err, &ke) {
			return false
		}
		if ke.ErrorCode == code {
			return true
		}
		err = ke.CausedBy
	}
	return false
}
