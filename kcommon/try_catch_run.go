package kcommon

import (
	"context"
	"fmt"

	"github.com/xinkaiwang/solvercore/kerror"
	"github.com/xinkaiwang/solvercore/klogging"
)

// TryCatchRun runs fn and converts a panic into a *kerror.Kerror.
// User supplied code (score calculators, moves) may panic with anything, so non-error values are wrapped too.
func TryCatchRun(ctx context.Context, fn func()) (ret *kerror.Kerror) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		switch v := r.(type) {
		case *kerror.Kerror:
			ret = v
		case error:
			ret = kerror.Wrap(v, "UnknownError", v.Error(), true)
		default:
			klogging.Debug(ctx).WithPanic(v).Log("NonErrorPanic", "")
			ret = kerror.Create("NonErrorPanic", fmt.Sprintf("%v", v))
		}
	}()
	fn()
	return
}
