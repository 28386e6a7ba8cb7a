package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"fieldharvest.ai/internal/actuator"
	"fieldharvest.ai/internal/agent/cargo"
	"fieldharvest.ai/internal/agent/coverage"
	"fieldharvest.ai/internal/agent/fuel"
	"fieldharvest.ai/internal/agent/harvest"
	"fieldharvest.ai/internal/agent/motion"
	"fieldharvest.ai/internal/agent/nav"
	"fieldharvest.ai/internal/agent/pose"
	"fieldharvest.ai/internal/runlog"
	"fieldharvest.ai/internal/runsdb"
	"fieldharvest.ai/internal/tuning"
)

const defaultDimension = 5

func main() {
	var (
		url        = flag.String("url", "ws://localhost:8080/v1/ws", "field ws url")
		name       = flag.String("name", "harvester", "agent name")
		tuningPath = flag.String("tuning", "", "tuning.yaml path (empty: defaults)")
		runlogDir  = flag.String("runlog-dir", "", "run journal directory (empty: disabled)")
		runsDB     = flag.String("runs-db", "", "run history sqlite path (empty: disabled)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[agent] ", log.LstdFlags|log.Lmicroseconds)

	width := parseDimension(flag.Arg(0))
	length := parseDimension(flag.Arg(1))
	if width < 1 || length < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <width> <length>  (both >= 1)\n", os.Args[0])
		os.Exit(2)
	}

	tune := tuning.Defaults()
	if *tuningPath != "" {
		var err error
		if tune, err = tuning.Load(*tuningPath); err != nil {
			logger.Fatalf("load tuning: %v", err)
		}
	}

	client, err := actuator.Dial(*url, *name)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	defer client.Close()
	logger.Printf("connected as %s, field %dx%d announced",
		client.AgentID(), client.FieldParams().Width, client.FieldParams().Length)
	if fp := client.FieldParams(); width > fp.Width || length > fp.Length {
		logger.Printf("warning: task %dx%d exceeds the announced field %dx%d",
			width, length, fp.Width, fp.Length)
	}

	var journal coverage.Journal
	if *runlogDir != "" {
		j, err := runlog.Open(*runlogDir, "run")
		if err != nil {
			logger.Fatalf("open run journal: %v", err)
		}
		defer j.Close()
		logger.Printf("journal: %s", j.Path())
		journal = j
	}

	ctrl := buildController(client, tune, journal, logger)

	started := time.Now()
	report, err := ctrl.Run(context.Background(), coverage.Task{Width: width, Length: length})
	if err != nil {
		logger.Fatalf("run failed in state %s: %v", ctrl.State(), err)
	}

	if *runsDB != "" {
		db, err := runsdb.Open(*runsDB)
		if err != nil {
			logger.Fatalf("open runs db: %v", err)
		}
		defer db.Close()
		rec := runsdb.RunRecord{
			StartedAt:  started,
			FinishedAt: time.Now(),
			Width:      report.Width,
			Length:     report.Length,
			Cells:      report.Cells,
			Harvested:  report.Harvested,
			DumpCycles: report.DumpCycles,
			FuelBurned: report.FuelBurned,
		}
		if err := db.RecordRun(rec); err != nil {
			logger.Fatalf("%v", err)
		}
	}

	fmt.Printf("Covered the whole %dx%d field: %d cells visited, %d harvested.\n",
		width, length, report.Cells, report.Harvested)
}

// parseDimension treats missing or non-numeric arguments as the default
// size; out-of-range values stay as-is so main can reject them.
func parseDimension(arg string) int {
	if arg == "" {
		return defaultDimension
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return defaultDimension
	}
	return n
}

func buildController(act actuator.Actuator, tune tuning.Tuning, journal coverage.Journal, logger *log.Logger) *coverage.Controller {
	tracker := pose.NewTracker(act)
	mover := motion.NewMover(act, tracker, motion.Config{
		MaxRetries: tune.MoveMaxRetries,
		Backoff:    time.Duration(tune.MoveRetryBackoffMs) * time.Millisecond,
	})
	navigator := nav.New(tracker, mover)
	cargoMgr := cargo.NewManager(act, tracker)
	fuelMgr := fuel.NewManager(act, cargoMgr, fuel.Config{
		SafetyBuffer:      tune.FuelSafetyBuffer,
		RefuelMaxAttempts: tune.RefuelMaxAttempts,
	})
	classifier := harvest.NewClassifier(
		tune.Harvest.Allowlist,
		tune.Harvest.IncludeKeyword,
		tune.Harvest.ExcludeKeyword,
	)
	policy := harvest.NewPolicy(act, classifier)
	return coverage.NewController(tracker, mover, navigator, cargoMgr, fuelMgr, policy, journal, logger)
}
