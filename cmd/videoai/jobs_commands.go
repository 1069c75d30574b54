package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"videoai/internal/jobs"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and maintain the job store",
	}

	jobsCmd.AddCommand(newJobsListCommand(ctx))
	jobsCmd.AddCommand(newJobsShowCommand(ctx))
	jobsCmd.AddCommand(newJobsClearCommand(ctx))

	return jobsCmd
}

func newJobsListCommand(ctx *commandContext) *cobra.Command {
	var ownerFlag string
	var statusFlags []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *jobs.Store) error {
				statuses, err := parseStatusFlags(statusFlags)
				if err != nil {
					return err
				}

				var items []*jobs.Job
				if owner := strings.TrimSpace(ownerFlag); owner != "" {
					items, err = store.ListByOwner(cmd.Context(), owner)
					items = filterByStatus(items, statuses)
				} else {
					items, err = store.List(cmd.Context(), statuses...)
				}
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(items) == 0 {
					fmt.Fprintln(out, "No jobs found")
					return nil
				}

				rows := make([][]string, 0, len(items))
				for _, job := range items {
					rows = append(rows, []string{
						job.ID,
						job.OwnerID,
						string(job.Kind),
						string(job.Status),
						fmt.Sprintf("%d%%", job.Progress),
						job.UpdatedAt.Local().Format(time.DateTime),
						job.StageMessage,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "OWNER", "KIND", "STATUS", "PROGRESS", "UPDATED", "MESSAGE"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&ownerFlag, "owner", "", "Only list jobs for this owner")
	cmd.Flags().StringSliceVar(&statusFlags, "status", nil, "Only list jobs with these statuses")
	return cmd
}

func newJobsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one job in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *jobs.Store) error {
				job, err := store.GetByID(cmd.Context(), strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "ID:        %s\n", job.ID)
				fmt.Fprintf(out, "Owner:     %s\n", job.OwnerID)
				fmt.Fprintf(out, "Kind:      %s\n", job.Kind)
				fmt.Fprintf(out, "Status:    %s\n", job.Status)
				fmt.Fprintf(out, "Progress:  %d%%\n", job.Progress)
				if job.StageMessage != "" {
					fmt.Fprintf(out, "Message:   %s\n", job.StageMessage)
				}
				fmt.Fprintf(out, "Created:   %s\n", job.CreatedAt.Local().Format(time.DateTime))
				fmt.Fprintf(out, "Updated:   %s\n", job.UpdatedAt.Local().Format(time.DateTime))
				if job.CompletedAt != nil {
					fmt.Fprintf(out, "Finished:  %s\n", job.CompletedAt.Local().Format(time.DateTime))
				}
				if job.ErrorMessage != "" {
					fmt.Fprintf(out, "Error:     %s\n", job.ErrorMessage)
				}
				if job.InputJSON != "" {
					fmt.Fprintf(out, "Input:     %s\n", job.InputJSON)
				}
				if job.Result != nil {
					encoded, err := json.MarshalIndent(job.Result, "", "  ")
					if err != nil {
						return fmt.Errorf("encode result: %w", err)
					}
					fmt.Fprintf(out, "Result:\n%s\n", encoded)
				}
				return nil
			})
		},
	}
}

func newJobsClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove completed and failed jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *jobs.Store) error {
				removed, err := store.ClearTerminal(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d finished jobs\n", removed)
				return nil
			})
		},
	}
}

func parseStatusFlags(values []string) ([]jobs.Status, error) {
	statuses := make([]jobs.Status, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		status, ok := jobs.ParseStatus(trimmed)
		if !ok {
			return nil, fmt.Errorf("unknown status %q", trimmed)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func filterByStatus(items []*jobs.Job, statuses []jobs.Status) []*jobs.Job {
	if len(statuses) == 0 {
		return items
	}
	filtered := make([]*jobs.Job, 0, len(items))
	for _, job := range items {
		for _, status := range statuses {
			if job.Status == status {
				filtered = append(filtered, job)
				break
			}
		}
	}
	return filtered
}
