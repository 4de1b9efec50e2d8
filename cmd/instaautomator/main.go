package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MaryEjairu/InstaAutomator/internal/app"
	"github.com/MaryEjairu/InstaAutomator/internal/automation"
	"github.com/MaryEjairu/InstaAutomator/internal/dataset"
	"github.com/MaryEjairu/InstaAutomator/internal/report"
)

func main() {
	var (
		cfgPath     string
		datasetPath string
		trendDays   int
		actionsArg  string
	)
	flag.StringVar(&cfgPath, "config", "./config.yaml", "path to config (yaml or json)")
	flag.StringVar(&datasetPath, "dataset", "", "post history CSV; prints analytics instead of running a session")
	flag.IntVar(&trendDays, "trend-days", 30, "trailing window for dataset trends")
	flag.StringVar(&actionsArg, "actions", "", "comma-separated kind:target pairs to enqueue, e.g. like:post-1,comment:post-2")
	flag.Parse()

	if datasetPath != "" {
		if err := runAnalytics(datasetPath, trendDays); err != nil {
			fmt.Fprintln(os.Stderr, "fatal:", err)
			os.Exit(1)
		}
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := app.New(cfgPath)
	cfg, err := a.Init()
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
	defer a.Close()

	actions, err := parseActions(actionsArg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
	if len(actions) == 0 && len(cfg.Schedules) == 0 {
		fmt.Fprintln(os.Stderr, "nothing to do: pass -actions or configure schedules")
		os.Exit(1)
	}

	rep, err := a.RunSession(ctx, cfg, actions)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
	_ = report.WriteRun(os.Stdout, rep)
}

func runAnalytics(path string, trendDays int) error {
	posts, err := dataset.LoadCSV(path)
	if err != nil {
		return err
	}
	return report.WriteAnalytics(os.Stdout, posts, trendDays)
}

// parseActions turns "like:post-1,comment:post-2" into queued actions.
// Comment and message payloads come from configured schedules; ad-hoc
// actions enqueue with an empty payload.
func parseActions(arg string) ([]automation.Action, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, nil
	}
	var out []automation.Action
	for _, part := range strings.Split(arg, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kindStr, target, ok := strings.Cut(part, ":")
		if !ok || strings.TrimSpace(target) == "" {
			return nil, fmt.Errorf("bad action %q: want kind:target", part)
		}
		kind, err := automation.ParseKind(strings.TrimSpace(kindStr))
		if err != nil {
			return nil, fmt.Errorf("bad action %q: %w", part, err)
		}
		out = append(out, automation.Action{Kind: kind, Target: strings.TrimSpace(target)})
	}
	return out, nil
}
