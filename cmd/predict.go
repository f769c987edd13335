package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cedricly/demandcast/config"
	"github.com/cedricly/demandcast/core/forecast"
	"github.com/cedricly/demandcast/core/history"
	"github.com/cedricly/demandcast/core/model"
	"github.com/cedricly/demandcast/core/scenario"
	"github.com/cedricly/demandcast/infra/logger"
)

var (
	predictPreset  string
	predictDate    string
	predictTempMax float64
	predictTempMin float64
	predictPrecip  float64
	predictHoliday bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run a one-shot scenario prediction",
	RunE:  predictScenario,
}

func init() {
	predictCmd.Flags().StringVar(&predictPreset, "preset", "normal_weekday", "scenario preset name")
	predictCmd.Flags().StringVar(&predictDate, "date", "", "override date (YYYY-MM-DD)")
	predictCmd.Flags().Float64Var(&predictTempMax, "temp-max", 0, "override max temperature (°C)")
	predictCmd.Flags().Float64Var(&predictTempMin, "temp-min", 0, "override min temperature (°C)")
	predictCmd.Flags().Float64Var(&predictPrecip, "precip", 0, "override precipitation (mm)")
	predictCmd.Flags().BoolVar(&predictHoliday, "holiday", false, "override holiday flag")
	rootCmd.AddCommand(predictCmd)
}

func predictScenario(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New("predict-command")

	stats := history.DefaultStats()
	var pts []history.Point
	if cfg.History.Path != "" {
		if loaded, err := history.LoadCSV(cfg.History.Path); err != nil {
			logg.Warnf("load history: %v, using default distribution", err)
		} else {
			pts = loaded
			if s, err := history.Compute(history.Series(pts)); err == nil {
				stats = s
			}
		}
	}
	last, weekAgo := history.LagValues(pts, stats)
	hist := model.History{LastSearches: last, SearchesWeekAgo: weekAgo}

	svc, err := forecast.LoadService(cfg.Model.Path, stats, logg, nil, nil)
	if err != nil {
		return err
	}

	var ov scenario.Overrides
	if cmd.Flags().Changed("date") {
		d, err := time.Parse("2006-01-02", predictDate)
		if err != nil {
			return fmt.Errorf("parse date: %w", err)
		}
		ov.Date = &d
	}
	if cmd.Flags().Changed("temp-max") {
		ov.TempMax = &predictTempMax
	}
	if cmd.Flags().Changed("temp-min") {
		ov.TempMin = &predictTempMin
	}
	if cmd.Flags().Changed("precip") {
		ov.Precipitation = &predictPrecip
	}
	if cmd.Flags().Changed("holiday") {
		ov.Holiday = &predictHoliday
	}

	sc, err := scenario.Build(predictPreset, ov)
	if err != nil {
		return err
	}
	pred, err := svc.Predict(sc, hist)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Prediction model.Prediction   `json:"prediction"`
		Advice     history.Assessment `json:"advice"`
	}{pred, svc.Assess(pred)})
}
