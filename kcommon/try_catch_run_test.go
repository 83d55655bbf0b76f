package kcommon

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xinkaiwang/solvercore/kerror"
)

func TestTryCatchRun_NoPanic(t *testing.T) {
	called := false
	ke := TryCatchRun(context.Background(), func() {
		called = true
	})
	assert.Nil(t, ke)
	assert.True(t, called)
}

func TestTryCatchRun_Kerror(t *testing.T) {
	orig := kerror.Create("NoWorkingSolution", "").WithErrorCode(kerror.EC_ILLEGAL_STATE)
	ke := TryCatchRun(context.Background(), func() {
		panic(orig)
	})
	assert.Same(t, orig, ke)
}

func TestTryCatchRun_RuntimeError(t *testing.T) {
	ke := TryCatchRun(context.Background(), func() {
		var list []int
		_ = list[3]
	})
	require.NotNil(t, ke)
	assert.Equal(t, "UnknownError", ke.Type)
	assert.NotEmpty(t, ke.Stack)
	var re interface{ RuntimeError() }
	assert.True(t, errors.As(ke, &re))
}

func TestTryCatchRun_NonErrorPanic(t *testing.T) {
	ke := TryCatchRun(context.Background(), func() {
		panic("calculator exploded")
	})
	require.NotNil(t, ke)
	assert.Equal(t, "NonErrorPanic", ke.Type)
	assert.Equal(t, "calculator exploded", ke.Msg)
}
