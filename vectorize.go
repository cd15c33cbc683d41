package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kube-rca/incident-classifier/internal/feature"
	"github.com/kube-rca/incident-classifier/internal/model"
)

// vectorizeOutput - vectorize 명령 출력
type vectorizeOutput struct {
	CITratado      string    `json:"ci_tratado"`
	MaintenanceInt int       `json:"maintenance_int"`
	Width          int       `json:"width"`
	Active         []int     `json:"active"`
	Unknown        []string  `json:"unknown,omitempty"`
	Values         []float64 `json:"values,omitempty"`
}

func newVectorizeCmd() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "vectorize [alert-json]",
		Short: "Encode an alert into its feature vector without running the model",
		Long: `Reads a /predict payload from the argument (or stdin when omitted or "-")
and prints the derived ci_tratado, maintenance_int and active one-hot columns.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			raw, err := readAlertInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			alert, err := parseAlert(raw)
			if err != nil {
				return err
			}

			vocab, err := feature.LoadVocabulary(cfg.Artifacts.VocabularyPath)
			if err != nil {
				return err
			}

			vec, err := feature.NewEncoder(vocab).Encode(alert)
			if err != nil {
				return err
			}

			out := vectorizeOutput{
				CITratado:      vec.CITratado,
				MaintenanceInt: vec.MaintenanceInt,
				Width:          vec.Width(),
				Active:         vec.Active(),
				Unknown:        vec.Unknown,
			}
			if full {
				out.Values = vec.Values
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Include the full dense vector in the output")
	return cmd
}

func readAlertInput(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 1 && args[0] != "-" {
		arg := strings.TrimSpace(args[0])
		if strings.HasPrefix(arg, "@") {
			return os.ReadFile(strings.TrimPrefix(arg, "@"))
		}
		return []byte(arg), nil
	}
	raw, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return raw, nil
}

func parseAlert(raw []byte) (feature.Alert, error) {
	var req model.PredictRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return feature.Alert{}, fmt.Errorf("invalid payload: %w", err)
	}
	return req.ToAlert(), nil
}
