package klogging

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// key is an unexported type for keys defined in this package.
// This prevents collisions with keys defined in other packages.
type key int

var ctxInfoKey key

// CtxInfo holds key-values which get attached to every log entry created under the ctx.
// A child CtxInfo inherits (and may shadow) everything from its parents.
// CtxInfo is not safe for concurrent writes: each solving run creates its own.
type CtxInfo struct {
	Parent  *CtxInfo
	Details map[string]string
}

// GetCurrentCtxInfo returns nil if current ctx does not contain a CtxInfo object
func GetCurrentCtxInfo(ctx context.Context) *CtxInfo {
	if ctx == nil {
		return nil
	}
	info, _ := ctx.Value(ctxInfoKey).(*CtxInfo)
	return info
}

// CreateCtxInfo creates a new child info, using current ctx as parent.
func CreateCtxInfo(ctx context.Context) (context.Context, *CtxInfo) {
	info := &CtxInfo{
		Parent:  GetCurrentCtxInfo(ctx),
		Details: map[string]string{},
	}
	return context.WithValue(ctx, ctxInfoKey, info), info
}

func (info *CtxInfo) With(k string, v string) *CtxInfo {
	info.Details[k] = v
	return info
}

// VisitForward: visit top-level parents first, then its child, until leaf child.
// Keys within one level are visited in sorted order so log lines are stable.
func (info *CtxInfo) VisitForward(visitor func(k string, v string)) {
	if info == nil {
		return
	}
	info.Parent.VisitForward(visitor)
	keys := make([]string, 0, len(info.Details))
	for k, v := range info.Details {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		visitor(k, info.Details[k])
	}
}

// FindByKey returns fallback if not found in this and all parent infos.
func (info *CtxInfo) FindByKey(k string, fallback string) string {
	if info == nil {
		return fallback
	}
	if v, ok := info.Details[k]; ok && v != "" {
		return v
	}
	return info.Parent.FindByKey(k, fallback)
}

func (info *CtxInfo) String() string {
	var b strings.Builder
	info.VisitForward(func(k string, v string) {
		fmt.Fprintf(&b, ", %s=%v", k, v)
	})
	return b.String()
}

// EmbedRunId tags every log line created under the returned ctx with runId.
// Used by multi-start searches so interleaved lines from parallel runs can be told apart.
func EmbedRunId(ctx context.Context, runId string) context.Context {
	ctx2, info := CreateCtxInfo(ctx)
	info.With("runId", runId)
	return ctx2
}

func GetRunId(ctx context.Context) string {
	return GetCurrentCtxInfo(ctx).FindByKey("runId", "")
}
