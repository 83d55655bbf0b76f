package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xinkaiwang/solvercore/internal/etcdprov"
	"github.com/xinkaiwang/solvercore/kcommon"
	"github.com/xinkaiwang/solvercore/kerror"
	"github.com/xinkaiwang/solvercore/klogging"
	"github.com/xinkaiwang/solvercore/localsearch"
)

// storedResult is the json document kept in etcd per run.
type storedResult struct {
	RunId                 string   `json:"run_id"`
	BestScore             string   `json:"best_score"`
	StepCount             int      `json:"step_count"`
	ScoreCalculationCount int64    `json:"score_calculation_count"`
	TimeSpentMs           int64    `json:"time_spent_ms"`
	EndReason             string   `json:"end_reason"`
	TerminatedBy          []string `json:"terminated_by,omitempty"`
	FinishedAtMs          int64    `json:"finished_at_ms"`
}

func newStoredResult(result *localsearch.Result) *storedResult {
	return &storedResult{
		RunId:                 result.RunId,
		BestScore:             result.BestScore.String(),
		StepCount:             result.StepCount,
		ScoreCalculationCount: result.ScoreCalculationCount,
		TimeSpentMs:           result.TimeSpentMs,
		EndReason:             result.EndReason,
		TerminatedBy:          result.TerminatedBy,
		FinishedAtMs:          kcommon.GetWallTimeMs(),
	}
}

func resultKey(prefix, runId string) string {
	return strings.TrimSuffix(prefix, "/") + "/" + runId
}

func publishResults(ctx context.Context, provider etcdprov.EtcdProvider, prefix string, results []*localsearch.Result) error {
	ke := kcommon.TryCatchRun(ctx, func() {
		for _, result := range results {
			data, err := json.Marshal(newStoredResult(result))
			if err != nil {
				panic(kerror.Wrap(err, "MarshalError", "failed to marshal run result", false))
			}
			provider.Set(ctx, resultKey(prefix, result.RunId), string(data))
		}
	})
	if ke != nil {
		klogging.Error(ctx).WithError(ke).With("prefix", prefix).Log("PublishResultsFailed", "")
		return ke
	}
	klogging.Info(ctx).With("prefix", prefix).With("count", len(results)).Log("ResultsPublished", "")
	return nil
}

func loadResults(ctx context.Context, provider etcdprov.EtcdProvider, prefix string) ([]*storedResult, error) {
	var items []etcdprov.EtcdKvItem
	if ke := kcommon.TryCatchRun(ctx, func() {
		items = provider.List(ctx, strings.TrimSuffix(prefix, "/")+"/", 0)
	}); ke != nil {
		return nil, ke
	}
	stored := make([]*storedResult, 0, len(items))
	for _, item := range items {
		sr := &storedResult{}
		if err := json.Unmarshal([]byte(item.Value), sr); err != nil {
			return nil, kerror.Wrap(err, "MalformedResult", "stored run result is not valid json", false).With("key", item.Key)
		}
		stored = append(stored, sr)
	}
	return stored, nil
}

var resultsCmd = &cobra.Command{
	Use:   "results [etcd-prefix]",
	Short: "List run results published to etcd",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		stored, err := loadResults(ctx, etcdprov.GetCurrentEtcdProvider(ctx), args[0])
		if err != nil {
			return err
		}
		for _, sr := range stored {
			fmt.Printf("%s: score=%s steps=%d timeMs=%d end=%s\n", sr.RunId, sr.BestScore, sr.StepCount, sr.TimeSpentMs, sr.EndReason)
		}
		return nil
	},
}
