package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xinkaiwang/solvercore/internal/etcdprov"
	"github.com/xinkaiwang/solvercore/kerror"
	"github.com/xinkaiwang/solvercore/localsearch"
	"github.com/xinkaiwang/solvercore/score"
)

func TestPublishAndLoadResults(t *testing.T) {
	ctx := context.Background()
	fake := etcdprov.NewFakeEtcdProvider()
	results := []*localsearch.Result{
		{RunId: "run-0", BestScore: score.HardSoft.Of(0, -12), StepCount: 300, EndReason: localsearch.ER_TERMINATED, TerminatedBy: []string{"StepCount(300)"}},
		{RunId: "run-1", BestScore: score.HardSoft.Of(-1, -3), StepCount: 120, EndReason: localsearch.ER_NO_MOVE},
	}
	require.Nil(t, publishResults(ctx, fake, "/solver/results/", results))

	assert.Contains(t, fake.Get(ctx, "/solver/results/run-0").Value, `"best_score":"0hard/-12soft"`)
	stored, err := loadResults(ctx, fake, "/solver/results")
	require.Nil(t, err)
	require.Equal(t, 2, len(stored))
	assert.Equal(t, "run-1", stored[1].RunId)
	assert.Equal(t, "-1hard/-3soft", stored[1].BestScore)
	assert.Equal(t, []string{"StepCount(300)"}, stored[0].TerminatedBy)
}

func TestLoadResults_Malformed(t *testing.T) {
	ctx := context.Background()
	fake := etcdprov.NewFakeEtcdProvider()
	fake.Set(ctx, "/solver/results/run-0", "{not json")
	_, err := loadResults(ctx, fake, "/solver/results")
	require.NotNil(t, err)
	ke, ok := err.(*kerror.Kerror)
	require.True(t, ok)
	assert.Equal(t, "MalformedResult", ke.Type)
}
