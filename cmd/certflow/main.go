package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"certflow/internal/bootstrap"
	resolverdomain "certflow/internal/modules/resolver/domain"
	"certflow/internal/modules/resolver/dto"
	"certflow/internal/platform/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configFile string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "certflow",
		Short:         "Plan the plugin pipeline of a certificate request",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "path to certflow.yaml")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "debug|info|warn|error")

	root.AddCommand(newPlanCmd(flags))
	root.AddCommand(newPluginCmd(flags))
	return root
}

func loadApp(cmd *cobra.Command, flags *globalFlags) (*bootstrap.App, error) {
	cfg, err := config.Load(cmd, flags.configFile)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cmd.Context(), cfg, bootstrap.StdStreams())
}

func newPlanCmd(flags *globalFlags) *cobra.Command {
	input := dto.PlanInput{}

	plan := &cobra.Command{
		Use:   "plan --host <name> [--host <name>...]",
		Short: "Choose the plugin for every pipeline step",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(input.Hosts) == 0 {
				return fmt.Errorf("--host is required")
			}
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.ResolverCLI.Plan(cmd.Context(), input)
			if errors.Is(err, resolverdomain.ErrNoTarget) {
				return fmt.Errorf("plan aborted: %w", err)
			}
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "target %s (%s) run-level=%s\n", out.TargetName, strings.Join(out.Identifiers, ","), out.RunLevel)
			for _, s := range out.Selections {
				_, _ = fmt.Fprintf(w, "%-13s %-28s %s\n", s.Step, s.ID, s.Description)
			}
			if out.ID != "" {
				_, _ = fmt.Fprintf(w, "recorded plan %s\n", out.ID)
			}
			return nil
		},
	}
	plan.Flags().StringSliceVar(&input.Hosts, "host", nil, "identifier to include (repeatable)")
	plan.Flags().StringVar(&input.TargetName, "name", "", "friendly name of the target")
	plan.Flags().StringVar(&input.Validation, "validation", "", "validation plugin name")
	plan.Flags().StringVar(&input.ValidationMode, "validationmode", "", "validation challenge type, e.g. dns-01")
	plan.Flags().StringVar(&input.Store, "store", "", "comma separated store plugin names")
	plan.Flags().StringVar(&input.Installation, "installation", "", "comma separated installation plugin names")
	plan.Flags().BoolVar(&input.Unattended, "unattended", false, "never ask, use arguments and settings only")
	plan.Flags().BoolVar(&input.Advanced, "advanced", false, "always show the menus")
	plan.Flags().BoolVar(&input.Test, "test", false, "dry run, the plan is not recorded")

	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "List recorded plans, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()
			records, err := app.ResolverCLI.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plans recorded")
				return nil
			}
			for _, r := range records {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s target=%s validation=%s order=%s csr=%s store=%s installation=%s\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.TargetName, r.Target, orNone(r.Validation), orNone(r.Order), orNone(r.Csr),
					orNone(strings.Join(r.Stores, ",")), orNone(strings.Join(r.Installations, ",")))
			}
			return nil
		},
	}
	history.Flags().IntVar(&limit, "limit", 20, "number of plans to show")
	plan.AddCommand(history)
	return plan
}

func orNone(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func newPluginCmd(flags *globalFlags) *cobra.Command {
	plugin := &cobra.Command{Use: "plugin", Short: "Plugin catalog operations"}

	var step string
	list := &cobra.Command{
		Use:   "list",
		Short: "List the plugin catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()
			plugins, err := app.PluginCLI.List(cmd.Context(), step)
			if err != nil {
				return err
			}
			for _, p := range plugins {
				line := fmt.Sprintf("%-13s %-28s order=%-3d %s", p.Step, p.ID, p.Order, p.Description)
				if p.ChallengeType != "" {
					line += " [" + p.ChallengeType + "]"
				}
				if p.Hidden {
					line += " hidden"
				}
				if p.Disabled {
					line += fmt.Sprintf(" disabled=%q", p.Reason)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	list.Flags().StringVar(&step, "step", "", "only list plugins of this step")
	plugin.AddCommand(list)

	plugin.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Validate external plugin checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(cmd, flags)
			if err != nil {
				return err
			}
			defer app.Close()
			results, err := app.PluginCLI.Doctor(cmd.Context())
			if err != nil {
				return err
			}
			if len(results) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins configured")
				return nil
			}
			for _, r := range results {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s step=%s checksum=%t binary=%t lifecycle=%t", r.Name, r.Step, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK)
				if r.Reason != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), " disabled=%q", r.Reason)
				}
				if r.Error != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%q", r.Error)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	})
	return plugin
}
