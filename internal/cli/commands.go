package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/jobhunter/internal/services/trial"
)

func (r *root) signupCmd() *cobra.Command {
	var (
		email    string
		keywords []string
		country  string
	)
	cmd := &cobra.Command{
		Use:     "signup",
		Short:   "Register a user and start the 3-day trial",
		Example: `  jobhunterctl signup --email user@example.com --keywords python,remote --country Kenya`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withService(cmd, func(ctx context.Context, svc Service) (any, error) {
				return svc.Signup(ctx, email, keywords, country)
			})
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "user email")
	cmd.Flags().StringSliceVarP(&keywords, "keywords", "k", nil, "job search keywords, comma separated")
	cmd.Flags().StringVar(&country, "country", "", "user country")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("keywords")
	_ = cmd.MarkFlagRequired("country")
	return cmd
}

func (r *root) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run EMAIL",
		Short: "Run job automation if the trial is active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withService(cmd, func(ctx context.Context, svc Service) (any, error) {
				res, err := svc.Run(ctx, args[0])
				var expired *trial.TrialExpiredError
				if errors.As(err, &expired) {
					return nil, fmt.Errorf("trial expired at %s, upgrade: %s",
						expired.TrialExpires.UTC().Format("2006-01-02 15:04:05 MST"), expired.UpgradeURL)
				}
				return res, err
			})
		},
	}
}

func (r *root) upgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade EMAIL",
		Short: "Show payment options for the user's country",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withService(cmd, func(ctx context.Context, svc Service) (any, error) {
				return svc.Upgrade(ctx, args[0])
			})
		},
	}
}

func (r *root) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status EMAIL",
		Short: "Show the trial status of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withService(cmd, func(ctx context.Context, svc Service) (any, error) {
				return svc.Status(ctx, args[0])
			})
		},
	}
}

func (r *root) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count total, active and expired trials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withService(cmd, func(ctx context.Context, svc Service) (any, error) {
				return svc.Stats(ctx)
			})
		},
	}
}

func (r *root) sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Re-save every stored record unchanged",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.withService(cmd, func(ctx context.Context, svc Service) (any, error) {
				n, err := svc.Sweep(ctx)
				if err != nil {
					return nil, err
				}
				return map[string]int{"swept": n}, nil
			})
		},
	}
}
