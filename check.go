package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kube-rca/incident-classifier/internal/logging"
	"github.com/kube-rca/incident-classifier/internal/service"
)

// checkAlert - 배포 전 점검용 고정 입력
const checkAlert = `{"source":"zabbix","environment":"prod","severity":"critical","metric_name":"cpu_high","ci":"app-01","maintenance":false}`

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load the model artifacts and run one probe prediction",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			artifacts := service.NewArtifacts(service.NewFileArtifactLoader(cfg.Artifacts), cfg.Artifacts.RetryInterval, nil, logger)
			if err := artifacts.Warm(); err != nil {
				return err
			}

			alert, err := parseAlert([]byte(checkAlert))
			if err != nil {
				return err
			}

			svc := service.NewPredictService(artifacts, nil, nil, logger)
			decision, err := svc.Predict(context.Background(), "check", alert)
			if err != nil {
				return err
			}

			logger.Info("Model check passed",
				zap.Float64("probability", decision.Probability),
				zap.Bool("is_incident", decision.IsIncident))
			fmt.Fprintf(cmd.OutOrStdout(), "ok probability=%.4f is_incident=%t\n", decision.Probability, decision.IsIncident)
			return nil
		},
	}
}
