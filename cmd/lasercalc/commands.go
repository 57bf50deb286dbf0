package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"lasercalc/internal/calculator/benchmark"
	"lasercalc/internal/calculator/equipment"
	"lasercalc/internal/calculator/warping"
	"lasercalc/internal/configuration"
	"lasercalc/internal/input"
	"lasercalc/internal/score"
	"lasercalc/internal/validate"
)

var machineType string

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <input.yaml>",
	Short: "Benchmark an operation against its machine-class references",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := readRecord(args[0])
		if err != nil {
			return err
		}

		files := appConfig.Calculators.Benchmark
		weights, err := overrideWeights(files)
		if err != nil {
			return err
		}
		heuristics, rules, err := overrideRules(files)
		if err != nil {
			return err
		}

		cal, err := benchmark.NewCustom(machineType, weights, heuristics, rules)
		if err != nil {
			return err
		}
		result, err := cal.Evaluate(rec)
		if err != nil {
			return err
		}
		logWarnings(result.Warnings)
		return printJSON(result)
	},
}

var riskCmd = &cobra.Command{
	Use:   "risk <input.yaml>",
	Short: "Estimate warping risk for a cutting job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := readRecord(args[0])
		if err != nil {
			return err
		}

		heuristics, rules, err := overrideRules(appConfig.Calculators.Warping)
		if err != nil {
			return err
		}
		cal, err := warping.NewCustom(heuristics, rules)
		if err != nil {
			return err
		}
		result, err := cal.Evaluate(rec)
		if err != nil {
			return err
		}
		logWarnings(result.Warnings)
		return printJSON(result)
	},
}

var priorityMode string

var compareCmd = &cobra.Command{
	Use:   "compare <options.yaml>",
	Short: "Rank equipment options under a priority mode",
	Long: `Reads a YAML list of equipment option records, scores each against the
best values in the set, and prints the ranking with the named selections
(best overall, best value, best budget, best performance).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		options, err := readRecords(args[0])
		if err != nil {
			return err
		}

		var ranking *score.Ranking
		if path := appConfig.Calculators.Equipment.Weights; path != "" {
			weights, err := score.LoadWeightsFile(path)
			if err != nil {
				return err
			}
			ranking, err = equipment.CompareWeighted(options, weights)
			if err != nil {
				return err
			}
		} else {
			ranking, err = equipment.Compare(options, priorityMode)
			if err != nil {
				return err
			}
		}

		for _, r := range ranking.Results {
			logWarnings(r.Warnings)
		}
		return printJSON(ranking)
	},
}

func init() {
	evaluateCmd.Flags().StringVar(&machineType, "machine", benchmark.MachineFiber, "machine class: fiber, co2 or solid_state")
	compareCmd.Flags().StringVar(&priorityMode, "priority", equipment.ModeBalanced, "priority mode: balanced, cost or performance")
}

func readRecord(path string) (input.Record, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec input.Record
	if err := yaml.Unmarshal(content, &rec); err != nil {
		return nil, fmt.Errorf("error parsing input record: %w", err)
	}
	return rec, nil
}

func readRecords(path string) ([]input.Record, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var recs []input.Record
	if err := yaml.Unmarshal(content, &recs); err != nil {
		return nil, fmt.Errorf("error parsing input records: %w", err)
	}
	return recs, nil
}

func overrideWeights(files configuration.CalculatorFiles) (score.Weights, error) {
	if files.Weights == "" {
		return nil, nil
	}
	return score.LoadWeightsFile(files.Weights)
}

func overrideRules(files configuration.CalculatorFiles) (heuristics, rules []byte, err error) {
	if files.Heuristics != "" {
		heuristics, err = os.ReadFile(files.Heuristics)
		if err != nil {
			return nil, nil, err
		}
	}
	if files.Recommendations != "" {
		rules, err = os.ReadFile(files.Recommendations)
		if err != nil {
			return nil, nil, err
		}
	}
	return heuristics, rules, nil
}

func logWarnings(warnings []validate.Warning) {
	for _, w := range warnings {
		slog.Warn(w.Message, "field", w.Field, "code", w.Code)
	}
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(data, '\n'))
	return err
}
