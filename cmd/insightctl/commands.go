package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"career-crafter/internal/app"
	"career-crafter/internal/config"
	"career-crafter/internal/delivery/http/dto"
	domain "career-crafter/internal/domain/insight"
	"career-crafter/internal/pkg/jwt"
	"career-crafter/internal/usecase/insight"

	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored industry keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
				keys, err := c.Insights.ListIndustryKeys(ctx)
				if err != nil {
					return err
				}
				for _, k := range keys {
					fmt.Fprintln(cmd.OutOrStdout(), k)
				}
				return nil
			})
		},
	}
}

func insightRequest(cmd *cobra.Command, key string) insight.Request {
	sub, _ := cmd.Flags().GetString("sub-industry")
	skills, _ := cmd.Flags().GetStringSlice("skills")
	return insight.Request{IndustryKey: key, SubIndustry: sub, UserSkills: skills}
}

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().String("sub-industry", "", "Sub-industry focus for the prompt")
	cmd.Flags().StringSlice("skills", nil, "Skills the recommendations should complement")
}

func refreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh [industry]",
		Short: "Regenerate one industry unless another instance is already doing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
				res, err := c.Insights.Refresh(ctx, insightRequest(cmd, args[0]))
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), dto.NewInsightResponse(res))
			})
		},
	}
	addRequestFlags(cmd)
	return cmd
}

func regenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regenerate [industry]",
		Short: "Force regeneration, ignoring any in-progress marker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
				res, err := c.Insights.Regenerate(ctx, insightRequest(cmd, args[0]))
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), dto.NewInsightResponse(res))
			})
		},
	}
	addRequestFlags(cmd)
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [industry]",
		Short: "Delete one stored industry record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
				if err := c.Insights.Delete(ctx, args[0]); err != nil {
					if errors.Is(err, domain.ErrNotFound) {
						return fmt.Errorf("no record for %q", args[0])
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func clearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored industry record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				return errors.New("refusing to clear all records without --yes")
			}
			return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
				n, err := c.Insights.DeleteAll(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d record(s)\n", n)
				return nil
			})
		},
	}
	cmd.Flags().Bool("yes", false, "Confirm deleting every record")
	return cmd
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Refresh every stored industry now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
				summary, err := c.Sweeper.RunOnce(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), summary)
			})
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply embedded database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, func(ctx context.Context, c *app.Container) error {
				n, err := c.Migrate(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
				return nil
			})
		},
	}
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token [subject]",
		Short: "Mint a development bearer token for subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.App.IsDevelopment() {
				return fmt.Errorf("token minting is disabled in %q", cfg.App.Environment)
			}
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			ttl, _ := cmd.Flags().GetDuration("ttl")
			if ttl <= 0 {
				ttl = cfg.JWT.ExpiresIn
			}
			tok, err := jwt.NewHMACService(cfg.JWT.Secret, cfg.JWT.Issuer, ttl).GenerateToken(args[0], email, name)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().String("email", "", "Email claim")
	cmd.Flags().String("name", "", "Name claim")
	cmd.Flags().Duration("ttl", 0, "Token lifetime (defaults to JWT_EXPIRES_IN)")
	return cmd
}

func placeholderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "placeholder [label]",
		Short: "Print the generic placeholder record without storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			window := 7 * 24 * time.Hour
			if cfg, err := config.Load(); err == nil {
				window = cfg.Insights.FreshnessWindow
			}
			rec := domain.Placeholder(strings.TrimSpace(args[0]), time.Now(), window)
			return printJSON(cmd.OutOrStdout(), dto.InsightResponse{Record: rec, Source: string(insight.SourcePlaceholder)})
		},
	}
}
