package transcribe

import (
	"context"

	"transcribebatch/pkg/logger"
)

// getBatchStatus fetches every provider-reported job summary for batchID,
// following pagination until either the provider runs out of pages or one
// of two defect mitigations cuts it short:
//
//  1. Expected-set short-circuit: once every fqid in expectedFqids has been
//     observed, return immediately and ignore any remaining page token.
//  2. Empty-page termination: a page with zero summaries stops pagination,
//     even if it carries a non-empty next-page token. A known provider
//     defect returns a non-empty token with an empty page forever.
//
// A throttle-family error from the provider returns whatever was
// accumulated so far without propagating; the next poll tick retries.
// Any other provider error propagates to the caller.
func getBatchStatus(ctx context.Context, provider Provider, batchID string, expectedFqids []string) ([]JobSummary, error) {
	pending := make(map[string]struct{}, len(expectedFqids))
	for _, id := range expectedFqids {
		pending[id] = struct{}{}
	}

	var accumulated []JobSummary
	pageToken := ""
	for {
		page, err := provider.ListJobs(ctx, ListJobsInput{Containing: batchID, PageToken: pageToken})
		if err != nil {
			if isThrottled(err) {
				logger.Warn("list jobs throttled, returning partial result", "batch_id", batchID, "accumulated", len(accumulated))
				return accumulated, nil
			}
			return accumulated, err
		}

		accumulated = append(accumulated, page.Summaries...)
		if len(page.Summaries) == 0 {
			return accumulated, nil
		}

		for _, s := range page.Summaries {
			delete(pending, s.Name)
		}
		if len(pending) == 0 {
			return accumulated, nil
		}

		if page.NextPageToken == "" {
			return accumulated, nil
		}
		pageToken = page.NextPageToken
	}
}
