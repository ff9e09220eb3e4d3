package cmd

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/dto"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/internal/strategy"
	"github.com/DroomDroom-Org/DroomdroomConverter-sub000/pkg/utils"
	"github.com/spf13/cobra"
)

var predictDate string

var predictCmd = &cobra.Command{
	Use:   "predict <slug>",
	Short: "Print the prediction overview of a coin, or a single target date with --date",
	Args:  cobra.ExactArgs(1),
	Run:   Predict,
}

var generateYearlyCmd = &cobra.Command{
	Use:   "generate-yearly",
	Short: "Run the yearly prediction batch once",
	Run:   GenerateYearly,
}

func init() {
	predictCmd.Flags().StringVar(&predictDate, "date", "", "target date, YYYY-MM-DD")
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("Failed to encode output: %v", err)
	}
}

func Predict(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}
	defer appDep.Close()

	services, err := appDep.NewServices(ctx)
	if err != nil {
		log.Fatalf("Failed to create services: %v", err)
	}

	if predictDate == "" {
		overview, err := services.PredictionService.GetOverview(ctx, args[0])
		if err != nil {
			log.Fatalf("Failed to predict %s: %v", args[0], err)
		}
		printJSON(overview)
		return
	}

	target, err := utils.ParseDate(predictDate)
	if err != nil {
		log.Fatalf("Invalid --date: %v", err)
	}
	res, err := services.PredictionService.Predict(ctx, args[0], target)
	if err != nil {
		log.Fatalf("Failed to predict %s: %v", args[0], err)
	}
	printJSON(res)
}

func GenerateYearly(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}
	defer appDep.Close()

	services, err := appDep.NewServices(ctx)
	if err != nil {
		log.Fatalf("Failed to create services: %v", err)
	}

	run, err := services.SchedulerService.RunNow(ctx, strategy.JobTypeYearlyPrediction)
	if err != nil {
		log.Fatalf("Yearly prediction job failed: %v", err)
	}
	printJSON(dto.NewJobRunResponse(*run))
}
