// Command transcribe-batch is a thin demonstration binary over the
// transcribe orchestration library: it uploads the given audio files,
// submits them to Amazon Transcribe, and blocks until every job
// resolves, printing progress as it goes. It is not a general-purpose
// CLI — the library's public API is the transcribe.Service type, not
// this binary.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"transcribebatch/internal/awsprovider"
	"transcribebatch/pkg/logger"
	"transcribebatch/pkg/transcribe"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var batchID string
	var languageCode string

	cmd := &cobra.Command{
		Use:   "transcribe-batch [audio files...]",
		Short: "Upload audio files and wait for Amazon Transcribe to finish",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args, batchID, languageCode)
		},
	}

	cmd.Flags().StringVar(&batchID, "batch-id", "", "pin the batch id instead of generating one")
	cmd.Flags().StringVar(&languageCode, "language-code", "", "override the language code for every job")

	return cmd
}

func run(ctx context.Context, sourceFiles []string, batchID, languageCode string) error {
	logger.Init(os.Getenv("LOG_LEVEL"))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Startup("transcribe_aws", "resolving configuration")
	service, err := awsprovider.InitService(map[string]string{})
	if err != nil {
		return fmt.Errorf("init transcribe_aws service: %w", err)
	}

	requests := make([]transcribe.TranscribeJobRequest, 0, len(sourceFiles))
	for _, path := range sourceFiles {
		jobID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		requests = append(requests, transcribe.TranscribeJobRequest{
			JobID:        jobID,
			SourceFile:   path,
			LanguageCode: languageCode,
		})
	}

	result, err := service.Transcribe(ctx, requests,
		transcribe.WithBatchID(batchID),
		transcribe.WithOnUpdate(func(update transcribe.TranscribeJobsUpdate) {
			summary := update.Result.Summary()
			logger.Info("batch progress",
				"ids_updated", strings.Join(update.IDsUpdated, ","),
				"completed", summary.CountCompleted,
				"total", summary.CountTotal,
			)
		}),
	)
	if err != nil {
		return fmt.Errorf("transcribe batch: %w", err)
	}

	for _, job := range result.Jobs() {
		fmt.Printf("%s\t%s\t%s\n", job.FQID(), job.Status, strings.ReplaceAll(job.Transcript, "\n", " "))
	}
	return nil
}
