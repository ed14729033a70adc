// Command spoofcheck replays probe scenarios against a running pixeltwin and
// reports whether the spoofed answers match what the target app expects.
//
// Usage:
//
//	spoofcheck [-base-url http://localhost:12180] <scenario.json | dir> ...
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pixeltwin-dev/pixeltwin/internal/client"
	"github.com/pixeltwin-dev/pixeltwin/internal/scenario"
)

func main() {
	baseURL := flag.String("base-url", "http://localhost:12180", "Base URL of the running twin")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: spoofcheck [-base-url URL] <scenario.json | dir> ...")
		os.Exit(2)
	}

	var scenarios []*scenario.Scenario
	for _, arg := range flag.Args() {
		info, err := os.Stat(arg)
		if err != nil {
			fatal("stat %s: %v", arg, err)
		}
		if info.IsDir() {
			loaded, err := scenario.LoadDir(arg)
			if err != nil {
				fatal("%v", err)
			}
			scenarios = append(scenarios, loaded...)
		} else {
			s, err := scenario.LoadScenario(arg)
			if err != nil {
				fatal("%v", err)
			}
			scenarios = append(scenarios, s)
		}
	}
	if len(scenarios) == 0 {
		fatal("no scenarios found")
	}

	ac := client.New(*baseURL)
	if ok, msg := ac.Health(); !ok {
		fatal("twin not reachable at %s: %s", *baseURL, msg)
	}

	runner := scenario.NewRunner(*baseURL)
	failed := 0
	for _, s := range scenarios {
		result, err := runner.Run(s)
		if err != nil {
			fmt.Printf("==> %s ... ERROR: %v\n", s.Name, err)
			failed++
			continue
		}

		status := "PASS"
		if !result.Passed {
			status = "FAIL"
			failed++
		}
		fmt.Printf("==> %s ... %s (%s)\n", result.ScenarioName, status, result.Duration.Round(time.Millisecond))

		for _, step := range result.Steps {
			if step.Passed {
				continue
			}
			fmt.Printf("    step %q: %s\n", step.Name, step.Error)
		}
	}

	fmt.Printf("\n%d/%d scenarios passed\n", len(scenarios)-failed, len(scenarios))
	if failed > 0 {
		os.Exit(1)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "spoofcheck: "+format+"\n", args...)
	os.Exit(1)
}
