package kerror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKerrorBasic(t *testing.T) {
	e1 := Create("Type1", "error happened")
	assert.Equal(t, "Type1: error happened", e1.Error())
	assert.Equal(t, EC_UNKNOWN, e1.ErrorCode)
}

func TestKerrorWithStack(t *testing.T) {
	e1 := Create("Type1", "error happened")
	expected := "Type1: error happened, stack=github.com/xinkaiwang/solvercore/kerror.TestKerrorWithStack"
	assert.Regexp(t, expected, e1.FullString())
}

func TestKerrorWithFields(t *testing.T) {
	e1 := Create("Type1", "error happened").With("stepIndex", 120).With("score", "0hard/-3soft").With("key", nil)
	str := e1.Error()
	assert.Regexp(t, "stepIndex=120,", str)
	assert.Regexp(t, "score=0hard/-3soft,", str)
	assert.Regexp(t, "key=<nil>", str)

	val, ok := e1.GetDetail("stepIndex")
	assert.True(t, ok)
	assert.Equal(t, 120, val)
	_, ok = e1.GetDetail("missing")
	assert.False(t, ok)
}

func TestKerrorConfigErrorHasNoStack(t *testing.T) {
	e1 := CreateConfigError("TerminationConfigConflict", "ambiguous limit")
	assert.Equal(t, EC_CONFIG_ERROR, e1.ErrorCode)
	assert.Equal(t, "", e1.Stack)
	assert.False(t, e1.ErrorCode.IsFatal())
}

func TestKerrorCausedByKerror(t *testing.T) {
	e1 := Create("Type1", "error Type1 happened").WithErrorCode(EC_SCORE_CORRUPTION)
	e2 := Wrap(e1, "Type2", "another level", true /* needStack */).With("stepIndex", 200)
	expected := "Type2: another level, stepIndex=200;\n Caused by: Type1: error Type1 happened, stack=github.com/xinkaiwang/solvercore/kerror.TestKerrorCausedByKerror"
	assert.Regexp(t, expected, e2.FullString())
	// inner code survives the wrap
	assert.Equal(t, EC_SCORE_CORRUPTION, e2.ErrorCode)
	assert.True(t, e2.ErrorCode.IsFatal())
}

func TestKerrorCausedByError(t *testing.T) {
	e1 := errors.New("hello")
	e2 := Wrap(e1, "Type2", "another level", true /* needStack */).WithErrorCode(EC_INVALID_PARAMETER)
	assert.Regexp(t, "^Type2: another level", e2.FullString())
	assert.Regexp(t, "Caused by: hello", e2.FullString())
	assert.Regexp(t, "^Type2: another level", e2.ShortString())
	assert.Regexp(t, "hello", e2.CausedByString())
	assert.True(t, errors.Is(e2, e1))
}

func TestIsErrorCode(t *testing.T) {
	inner := Create("CalculatorPanic", "boom").WithErrorCode(EC_CALCULATION_FAILURE)
	outer := fmt.Errorf("step 3: %w", Wrap(inner, "StepFailed", "", false).WithErrorCode(EC_UNKNOWN))
	assert.True(t, IsErrorCode(outer, EC_CALCULATION_FAILURE))
	assert.True(t, IsErrorCode(outer, EC_UNKNOWN))
	assert.False(t, IsErrorCode(outer, EC_CONFIG_ERROR))
	assert.False(t, IsErrorCode(errors.New("plain"), EC_UNKNOWN))
	assert.False(t, IsErrorCode(nil, EC_UNKNOWN))
}
