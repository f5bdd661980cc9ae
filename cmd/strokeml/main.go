// Command strokeml runs the stroke-risk training pipeline once: load the
// patient CSV, clean the BMI column, train logistic regression, random
// forest and SVM classifiers on a stratified 70/30 split, evaluate them, and
// persist the random forest. The only argument is an optional YAML config
// path.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/strokeml/strokeml/pipeline"
	"github.com/strokeml/strokeml/pkg/log"
)

func main() {
	configPath := ""
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := pipeline.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "strokeml: %v\n", err)
		os.Exit(1)
	}

	logger := log.Setup(cfg.LogLevel)

	result, err := pipeline.Run(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("pipeline aborted")
		os.Exit(1)
	}

	printSummary(result)
}

func printSummary(result *pipeline.Result) {
	header := color.New(color.FgCyan, color.Bold)
	metric := color.New(color.FgGreen)

	header.Println("\n=== Stroke risk report ===")
	fmt.Printf("rows: %d (train %d / test %d), bmi repaired: %d %v\n",
		result.Clean.Rows, result.TrainRows, result.TestRows,
		result.Clean.Invalid, result.Clean.DistinctRaw)

	for _, ev := range result.Evaluations {
		header.Printf("\n%s\n", ev.Name)
		cm := ev.Confusion
		fmt.Printf("  confusion  TP=%d FP=%d FN=%d TN=%d\n",
			cm.TruePositive, cm.FalsePositive, cm.FalseNegative, cm.TrueNegative)
		metric.Printf("  accuracy=%.4f precision=%.4f recall=%.4f f1=%.4f auc=%.4f\n",
			ev.Accuracy, ev.Precision, ev.Recall, ev.F1, ev.AUC)
	}
}
