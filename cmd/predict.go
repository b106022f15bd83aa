package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/citypulse/trafficast/app"
	"github.com/citypulse/trafficast/config"
	"github.com/citypulse/trafficast/core/model"
	"github.com/citypulse/trafficast/core/spatial"
	"github.com/citypulse/trafficast/infra/logger"
)

var (
	predictDayOfWeek int
	predictHour      int
	predictDayType   string
	predictFormat    string
	predictOut       string
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict per-segment speeds for a scenario and export the result",
	RunE:  runPredict,
}

func init() {
	predictCmd.Flags().IntVar(&predictDayOfWeek, "day-of-week", 0, "day to predict, Monday=0 .. Sunday=6")
	predictCmd.Flags().IntVar(&predictHour, "hour", 8, "hour of day, 0-23")
	predictCmd.Flags().StringVar(&predictDayType, "day-type", "normal", "normal, holiday or special_event")
	predictCmd.Flags().StringVar(&predictFormat, "format", "table", "export encoding: table, csv or geojson")
	predictCmd.Flags().StringVar(&predictOut, "out", "", "output file (default stdout)")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	logg := logger.New("predict")
	defer func() {
		if err := svc.Close(); err != nil {
			logg.Errorf("service close: %v", err)
		}
	}()

	dayType, err := model.ParseDayType(predictDayType)
	if err != nil {
		return err
	}
	res, err := svc.Engine.Predict(ctx, model.Scenario{
		DayOfWeek: predictDayOfWeek,
		Hour:      predictHour,
		DayType:   dayType,
	})
	if err != nil {
		return err
	}
	logg.Infof("matched %d historical rows, %d predictions, %d segments without geometry",
		res.MatchedRows, len(res.Predictions), res.ExcludedSegments)

	out := os.Stdout
	if predictOut != "" {
		f, err := os.Create(predictOut)
		if err != nil {
			return err
		}
		defer func() {
			if err := f.Close(); err != nil {
				logg.Errorf("close output: %v", err)
			}
		}()
		out = f
	}
	return spatial.Export(out, res.Predictions, spatial.Format(predictFormat))
}
