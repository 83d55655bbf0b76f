package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"contrib.go.opencensus.io/exporter/prometheus"
	"github.com/spf13/cobra"
	"go.opencensus.io/metric/metricproducer"

	"github.com/xinkaiwang/solvercore/config"
	"github.com/xinkaiwang/solvercore/internal/etcdprov"
	"github.com/xinkaiwang/solvercore/internal/roster"
	"github.com/xinkaiwang/solvercore/kcommon"
	"github.com/xinkaiwang/solvercore/klogging"
	"github.com/xinkaiwang/solvercore/kmetrics"
	"github.com/xinkaiwang/solvercore/localsearch"
	"github.com/xinkaiwang/solvercore/termination"
)

type runOptions struct {
	configPath   string
	starts       int
	employees    int
	days         int
	shiftsPerDay int
	problemSeed  int64
	metricsAddr  string
	etcdConfig   string
	etcdResults  string
}

var runOpts runOptions

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Solve a random roster and print the best one found",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSolve(cmd.Context(), runOpts)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [config]",
	Short: "Validate a solver config file and print the termination it builds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(args[0])
		if err != nil {
			return err
		}
		term, err := buildTermination(cfg)
		if err != nil {
			return err
		}
		fmt.Printf("environment_mode: %s\nstart_count: %d\nmoves_per_step: %d\ntermination: %v\n", cfg.EnvironmentMode, cfg.StartCount, cfg.MovesPerStep, term)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runOpts.configPath, "config", "c", "", "solver config file (.yaml, .yml or .json), defaults to a 10 second run")
	runCmd.Flags().IntVar(&runOpts.starts, "starts", 0, "number of concurrent starts, overrides start_count")
	runCmd.Flags().IntVar(&runOpts.employees, "employees", 8, "employees in the generated roster")
	runCmd.Flags().IntVar(&runOpts.days, "days", 28, "days in the generated roster")
	runCmd.Flags().IntVar(&runOpts.shiftsPerDay, "shifts-per-day", 3, "shifts per day in the generated roster")
	runCmd.Flags().Int64Var(&runOpts.problemSeed, "problem-seed", 1, "seed used to generate the roster")
	runCmd.Flags().StringVar(&runOpts.etcdConfig, "etcd-config-key", "", "read the solver config from this etcd key instead of --config")
	runCmd.Flags().StringVar(&runOpts.etcdResults, "etcd-result-prefix", "", "publish every run result under this etcd prefix")
	runCmd.Flags().StringVar(&runOpts.metricsAddr, "metrics-addr", "", "serve prometheus /metrics on this address while solving, e.g. :9090")
}

func loadConfig(path string) (config.SolverConfig, error) {
	if path == "" {
		cfg := config.NewSolverConfig()
		cfg.Termination = config.NewTerminationConfig().WithSecondsSpentLimit(10)
		return cfg, nil
	}
	sjc, err := config.LoadSolverConfigFile(path)
	if err != nil {
		return config.SolverConfig{}, err
	}
	return config.SolverConfigJsonToConfig(sjc), nil
}

func buildTermination(cfg config.SolverConfig) (termination.Termination, error) {
	return termination.NewFactory(cfg.Termination).BuildTermination(roster.NewScoreDirectorFactory().Definition())
}

func runSolve(ctx context.Context, opts runOptions) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	klogging.Info(ctx).With("version", Version).With("commit", GitCommit).Log("Starting", "solverdemo starting")

	var cfg config.SolverConfig
	var err error
	if opts.etcdConfig != "" {
		var sjc *config.SolverConfigJson
		sjc, err = config.LoadSolverConfigEtcd(ctx, etcdprov.GetCurrentEtcdProvider(ctx), opts.etcdConfig)
		cfg = config.SolverConfigJsonToConfig(sjc)
	} else {
		cfg, err = loadConfig(opts.configPath)
	}
	if err != nil {
		return err
	}
	if opts.starts > 0 {
		cfg.StartCount = opts.starts
	}

	if opts.metricsAddr != "" {
		shutdown, err := startMetricsServer(ctx, opts.metricsAddr)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	problem := roster.NewRandomRoster(kcommon.NewSafeRand(opts.problemSeed), opts.employees, opts.days, opts.shiftsPerDay)
	factory := roster.NewScoreDirectorFactory()
	klogging.Info(ctx).
		With("employees", opts.employees).
		With("days", opts.days).
		With("shiftsPerDay", opts.shiftsPerDay).
		With("environmentMode", cfg.EnvironmentMode).
		With("startCount", cfg.StartCount).
		Log("SolveStarting", "")

	phases := make([]*localsearch.Phase[*roster.Roster], cfg.StartCount)
	results, best, err := localsearch.RunMultiStart(ctx, cfg.StartCount, func(ctx context.Context, index int) (*localsearch.Phase[*roster.Roster], error) {
		phase, err := roster.BuildPhase(ctx, cfg, factory, problem, index)
		phases[index] = phase
		return phase, err
	})
	if err != nil {
		klogging.Error(ctx).WithError(err).Log("SolveFailed", "")
		return err
	}

	for _, result := range results {
		fmt.Printf("%s: score=%v steps=%d calculations=%d timeMs=%d end=%s terminatedBy=%v\n",
			result.RunId, result.BestScore, result.StepCount, result.ScoreCalculationCount, result.TimeSpentMs, result.EndReason, result.TerminatedBy)
	}
	if opts.etcdResults != "" {
		if err := publishResults(ctx, etcdprov.GetCurrentEtcdProvider(ctx), opts.etcdResults, results); err != nil {
			return err
		}
	}
	for i, result := range results {
		if result == best {
			fmt.Printf("\nbest (%s, %v):\n%s", result.RunId, result.BestScore, phases[i].WorkingSolution().Table())
		}
	}
	return nil
}

// startMetricsServer exposes the kmetrics registry through the opencensus prometheus exporter.
func startMetricsServer(ctx context.Context, addr string) (func(), error) {
	pe, err := prometheus.NewExporter(prometheus.Options{
		Namespace: "solverdemo",
	})
	if err != nil {
		return nil, err
	}
	processRegistry, err := kmetrics.NewProcessRegistry()
	if err != nil {
		return nil, err
	}
	kmetricsRegistry := kmetrics.GetKmetricsRegistry()
	metricproducer.GlobalManager().AddProducer(kmetricsRegistry)
	metricproducer.GlobalManager().AddProducer(processRegistry)

	mux := http.NewServeMux()
	mux.Handle("/metrics", pe)
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	go func() {
		klogging.Info(ctx).With("addr", addr).Log("MetricsServerStarting", "")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			klogging.Error(ctx).WithError(err).Log("MetricsServerError", "")
		}
	}()
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			klogging.Error(ctx).WithError(err).Log("MetricsServerShutdownError", "")
		}
		metricproducer.GlobalManager().DeleteProducer(kmetricsRegistry)
		metricproducer.GlobalManager().DeleteProducer(processRegistry)
	}, nil
}
