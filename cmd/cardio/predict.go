package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/cardio/internal/handler"
	"github.com/crimson-sun/cardio/internal/logging"
	"github.com/crimson-sun/cardio/pkg/cardio"
)

var predictCmd = &cobra.Command{
	Use:   "predict key=value...",
	Short: "Assess one patient from the command line",
	Long: "predict reads the 13 features as key=value pairs, e.g.\n\n" +
		"  cardio predict age=63 sex=1 cp=3 trestbps=145 chol=233 fbs=1 restecg=0 \\\n" +
		"    thalach=150 exang=0 oldpeak=2.3 slope=0 ca=0 thal=1",
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().String("chart", "", "Write the confidence chart PNG to this path")
}

type predictResult struct {
	Valid         bool      `json:"valid"`
	Reason        string    `json:"reason,omitempty"`
	Label         *int      `json:"label,omitempty"`
	Verdict       string    `json:"verdict,omitempty"`
	Probabilities []float64 `json:"probabilities,omitempty"`
}

func runPredict(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logging.Init(cfg.Logging.JSON, logging.ParseLevel(cfg.Logging.Level))

	form, err := parsePairs(args)
	if err != nil {
		return err
	}
	inputs, err := handler.Coerce(form)
	if err != nil {
		return err
	}

	chartPath, _ := cmd.Flags().GetString("chart")
	c, err := cardio.New(
		cardio.WithModelPaths(cfg.Engine.ModelPath, cfg.Engine.ScalerPath),
		cardio.WithRuntimeLibrary(cfg.Engine.RuntimePath),
		cardio.WithChart(chartPath != ""),
	)
	if err != nil {
		return err
	}
	defer c.Close()

	a, err := c.Assess(inputs)
	if err != nil {
		return err
	}

	res := predictResult{Valid: a.Valid, Reason: a.Reason}
	if a.Valid {
		label := a.Label
		res.Label = &label
		res.Verdict = a.Verdict
		res.Probabilities = a.Probabilities[:]
		if chartPath != "" {
			if err := os.WriteFile(chartPath, a.Chart, 0o644); err != nil {
				return fmt.Errorf("write chart: %w", err)
			}
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// parsePairs turns key=value arguments into a form. A repeated key keeps
// its first value.
func parsePairs(args []string) (map[string]string, error) {
	form := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("argument %q is not key=value", arg)
		}
		if _, seen := form[k]; !seen {
			form[k] = v
		}
	}
	return form, nil
}
