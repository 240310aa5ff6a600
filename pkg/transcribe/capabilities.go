package transcribe

import "context"

// ObjectStore is the injected object-store capability. Its one operation,
// Upload, either succeeds or returns an error; there is no retry built
// into the orchestrator — an upload failure propagates and aborts the
// batch.
type ObjectStore interface {
	Upload(ctx context.Context, localPath, bucket, key, acl string) error
}

// StartJobInput is the request shape for Provider.StartJob.
type StartJobInput struct {
	Name         string
	LanguageCode string
	MediaURI     string
	MediaFormat  string
}

// JobSummary is one entry of a ListJobs page.
type JobSummary struct {
	Name   string
	Status string
}

// ListJobsInput is the request shape for Provider.ListJobs.
type ListJobsInput struct {
	Containing string
	PageToken  string
}

// ListJobsOutput is one page of a ListJobs response. NextPageToken is
// empty when there are no further pages.
type ListJobsOutput struct {
	Summaries     []JobSummary
	NextPageToken string
}

// JobDescriptor is the response shape for Provider.GetJob.
type JobDescriptor struct {
	Status        string
	TranscriptURI string
}

// Provider is the injected transcription-provider capability. Idempotency
// of StartJob on name is not required of implementations.
type Provider interface {
	StartJob(ctx context.Context, in StartJobInput) error
	ListJobs(ctx context.Context, in ListJobsInput) (ListJobsOutput, error)
	GetJob(ctx context.Context, name string) (JobDescriptor, error)
}
