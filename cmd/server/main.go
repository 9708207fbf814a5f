package main

import (
	"fmt"
	"os"
	"time"

	"github.com/NaveedSindha/health-wellness-tracker/internal"
	"github.com/NaveedSindha/health-wellness-tracker/internal/auth"
	"github.com/NaveedSindha/health-wellness-tracker/internal/bootstrap"
	"github.com/NaveedSindha/health-wellness-tracker/internal/config"
	"github.com/NaveedSindha/health-wellness-tracker/internal/service"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "server",
		Short:         "Personal health and wellness tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newScoreCmd())
	root.AddCommand(newTokenCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Parse()
			if err != nil {
				return err
			}
			app := bootstrap.New(cfg)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}

func newScoreCmd() *cobra.Command {
	var (
		log     internal.DailyLog
		verbose bool
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute the health score of one day's metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if verbose {
				for _, c := range service.ScoreBreakdown(log) {
					fmt.Fprintf(out, "%-12s %6.2f / %2.0f\n", c.Metric, c.Points, c.Max)
				}
			}
			fmt.Fprintln(out, service.CalculateHealthScore(log))
			return nil
		},
	}
	f := cmd.Flags()
	f.Float64Var(&log.SleepHours, "sleep", 0, "hours slept")
	f.IntVar(&log.ExerciseMinutes, "exercise", 0, "minutes of exercise")
	f.IntVar(&log.WaterCups, "water", 0, "cups of water")
	f.IntVar(&log.Mood, "mood", service.DefaultMood, "mood, 1-5")
	f.IntVar(&log.Meals, "meals", service.DefaultMeals, "meals eaten")
	f.IntVar(&log.Stress, "stress", service.DefaultStress, "stress, 1-5")
	f.Float64Var(&log.ScreenTimeHours, "screen", 0, "hours of screen time")
	f.BoolVarP(&verbose, "verbose", "v", false, "print the per-metric breakdown")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		user internal.User
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for AUTH_MODE=jwt",
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}
			token, err := auth.NewJWTAuthProvider(secret, internal.NewNopLogger()).IssueToken(user, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&user.ID, "user", "", "user id (token subject)")
	cmd.Flags().StringVar(&user.Name, "name", "", "display name")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
