// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cardexhq/cardex/internal/catalog"
	"github.com/cardexhq/cardex/internal/logging"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect ETL job history",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent ingestion jobs",
	RunE:  runJobsList,
}

var jobsShowCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show one job in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsShow,
}

func init() {
	jobsListCmd.Flags().String("game", "", "filter by game code (empty = all games)")
	jobsListCmd.Flags().Int("limit", 20, "maximum jobs to list")

	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsShowCmd)
	rootCmd.AddCommand(jobsCmd)
}

func openStore() (*catalog.Store, func(), error) {
	store, err := catalog.New(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog: %w", err)
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing catalog")
		}
	}
	return store, cleanup, nil
}

func runJobsList(cmd *cobra.Command, args []string) error {
	game, _ := cmd.Flags().GetString("game")
	limit, _ := cmd.Flags().GetInt("limit")

	store, cleanup, err := openStore()
	if err != nil {
		return err
	}
	defer cleanup()

	jobs, err := store.ListJobs(cmd.Context(), game, limit)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Println("No jobs found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tGAME\tTYPE\tSTATUS\tPROGRESS\tDURATION\tCREATED")
	for _, job := range jobs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%s\t%s\n",
			job.ID, job.GameCode, job.JobType, job.Status,
			job.ProcessedRecords, job.TotalRecords,
			formatDuration(job.DurationMs),
			job.CreatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func runJobsShow(cmd *cobra.Command, args []string) error {
	jobID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid job id %q: %w", args[0], err)
	}

	store, cleanup, err := openStore()
	if err != nil {
		return err
	}
	defer cleanup()

	job, err := store.GetJob(cmd.Context(), jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("job %s not found", jobID)
	}

	fmt.Printf("Job:       %s\n", job.ID)
	fmt.Printf("Game:      %s\n", job.GameCode)
	fmt.Printf("Type:      %s\n", job.JobType)
	fmt.Printf("Status:    %s\n", job.Status)
	fmt.Printf("Progress:  %d/%d (%.1f%%)\n", job.ProcessedRecords, job.TotalRecords, job.ProgressPercent())
	if job.StartedAt != nil {
		fmt.Printf("Started:   %s\n", job.StartedAt.Format(time.RFC3339))
	}
	if job.CompletedAt != nil {
		fmt.Printf("Completed: %s\n", job.CompletedAt.Format(time.RFC3339))
	}
	fmt.Printf("Duration:  %s\n", formatDuration(job.DurationMs))
	if job.ErrorMessage != nil && *job.ErrorMessage != "" {
		fmt.Printf("Error:     %s\n", *job.ErrorMessage)
	}
	return nil
}

func formatDuration(ms *int64) string {
	if ms == nil {
		return "-"
	}
	return (time.Duration(*ms) * time.Millisecond).String()
}
