package transcribe

import (
	"fmt"
	"path/filepath"
	"strings"
)

// defaultLanguageCode is used whenever a request omits LanguageCode.
const defaultLanguageCode = "en-US"

// TranscribeJobRequest is caller input for a single job within a batch.
// BatchID on an individual request is advisory only: Transcribe always
// overrides it with the batch-wide id.
type TranscribeJobRequest struct {
	BatchID      string
	JobID        string
	SourceFile   string
	LanguageCode string
	MediaFormat  string
}

// FQID returns the fully qualified job id for this request under the
// given batch id: "{batchId}-{jobId}".
func (r TranscribeJobRequest) FQID(batchID string) string {
	return fmt.Sprintf("%s-%s", batchID, r.JobID)
}

func (r TranscribeJobRequest) languageCode() string {
	if r.LanguageCode != "" {
		return r.LanguageCode
	}
	return defaultLanguageCode
}

// mediaFormat returns the request's MediaFormat, or derives it from the
// source file's extension (lowercased, without the leading dot) when absent.
func (r TranscribeJobRequest) mediaFormat() string {
	if r.MediaFormat != "" {
		return r.MediaFormat
	}
	ext := filepath.Ext(r.SourceFile)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// toJob materializes a request into its initial internal job state, under
// the given batch id.
func (r TranscribeJobRequest) toJob(batchID string) TranscribeJob {
	return TranscribeJob{
		BatchID:      batchID,
		JobID:        r.JobID,
		SourceFile:   r.SourceFile,
		MediaFormat:  r.mediaFormat(),
		LanguageCode: r.languageCode(),
		Status:       NONE,
	}
}

// TranscribeJob is the orchestrator's internal per-job state.
type TranscribeJob struct {
	BatchID      string
	JobID        string
	SourceFile   string
	MediaFormat  string
	LanguageCode string
	Status       TranscribeJobStatus
	Transcript   string
}

// FQID returns this job's fully qualified id, its unique key within the
// batch and the name submitted to the provider.
func (j TranscribeJob) FQID() string {
	return fmt.Sprintf("%s-%s", j.BatchID, j.JobID)
}

// StatusCount is one entry of a BatchSummary: how many jobs hold a given
// status.
type StatusCount struct {
	Status TranscribeJobStatus
	Count  int
}

// BatchSummary is the derived per-status breakdown of a batch result,
// mirroring the original's summary().get_count(status) accessor.
type BatchSummary struct {
	counts         map[TranscribeJobStatus]int
	CountTotal     int
	CountCompleted int
}

// Count returns how many jobs currently hold the given status.
func (s BatchSummary) Count(status TranscribeJobStatus) int {
	return s.counts[status]
}
