package transcribe

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"transcribebatch/pkg/logger"
)

// Service is the job orchestrator: the state machine that drives every
// job in a batch through UPLOAD -> START -> POLL -> RESOLVE. A Service
// is safe to reuse across sequential, non-overlapping batches; it is not
// reentrant on the same batch id.
type Service struct {
	cfg      Config
	store    ObjectStore
	provider Provider
	http     httpGetter
	sleep    func(time.Duration)
}

// NewService builds a Service from resolved config and the two capability
// handles. Both handles are treated as immutable and read-only for the
// lifetime of the Service.
func NewService(cfg Config, store ObjectStore, provider Provider) *Service {
	return &Service{
		cfg:      cfg,
		store:    store,
		provider: provider,
		http:     &http.Client{},
		sleep:    time.Sleep,
	}
}

// Option customizes a single Transcribe call.
type Option func(*transcribeOptions)

type transcribeOptions struct {
	batchID  string
	onUpdate func(TranscribeJobsUpdate)
}

// WithBatchID pins the batch id instead of generating a fresh one.
func WithBatchID(id string) Option {
	return func(o *transcribeOptions) { o.batchID = id }
}

// WithOnUpdate registers the observer notified after every tick that
// produced at least one real change. The observer is never invoked with
// an empty idsUpdated.
func WithOnUpdate(fn func(TranscribeJobsUpdate)) Option {
	return func(o *transcribeOptions) { o.onUpdate = fn }
}

// Transcribe runs a batch to completion: uploads every source file in
// input order, opportunistically starts provider jobs as uploads finish,
// then polls until every job resolves. It returns the final result even
// when some jobs end FAILED. An upload error or a non-throttle listing
// error aborts the batch early with that error; a canceled ctx ends the
// poll loop and returns the partial result with a nil error.
func (s *Service) Transcribe(ctx context.Context, requests []TranscribeJobRequest, opts ...Option) (TranscribeBatchResult, error) {
	options := transcribeOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	batchID := options.batchID
	if batchID == "" {
		batchID = uuid.New().String()
	}
	notify := s.notifier(options.onUpdate)

	result := NewTranscribeBatchResult(requests, batchID)

	for i, req := range requests {
		fqid := req.FQID(batchID)
		key := s.getS3Path(req.SourceFile, fqid)
		logger.Info("uploading audio", "progress", fmt.Sprintf("%d/%d", i+1, len(requests)), "key", key)

		if err := s.store.Upload(ctx, req.SourceFile, s.cfg.Bucket, key, "public-read"); err != nil {
			return result, &UploadError{SourceFile: req.SourceFile, Err: err}
		}

		working := result.copyShallow()
		if working.updateJob(fqid, UPLOADED, "") {
			result = working
			notify(TranscribeJobsUpdate{Result: result, IDsUpdated: []string{fqid}})
		} else {
			result = working
		}

		result = s.tryEnsureAllJobsStarted(ctx, result, notify)
	}

	for result.HasAnyUnresolved() {
		if ctx.Err() != nil {
			logger.Warn("transcribe canceled, returning partial result", "batch_id", batchID)
			return result, nil
		}
		if s.cfg.PollInterval > 0 {
			s.sleep(s.cfg.PollInterval)
		}
		result = s.tryEnsureAllJobsStarted(ctx, result, notify)

		next, err := s.updateStatusTick(ctx, result, batchID, notify)
		if err != nil {
			return next, fmt.Errorf("update batch status: %w", err)
		}
		result = next

		summary := result.Summary()
		logger.Info("transcribe progress",
			"completed", summary.CountCompleted,
			"total", summary.CountTotal,
			"succeeded", summary.Count(SUCCEEDED),
			"failed", summary.Count(FAILED),
			"queued", summary.Count(QUEUED),
			"in_progress", summary.Count(IN_PROGRESS),
		)
	}

	return result, nil
}

// tryEnsureAllJobsStarted submits every UPLOADED job to the provider. The
// first error — throttle or otherwise — stops the scan for this tick;
// unsubmitted jobs remain UPLOADED and are retried on the next call.
func (s *Service) tryEnsureAllJobsStarted(ctx context.Context, result TranscribeBatchResult, notify func(TranscribeJobsUpdate)) TranscribeBatchResult {
	uploaded := make([]string, 0)
	for fqid, job := range result.JobsByID {
		if job.Status == UPLOADED {
			uploaded = append(uploaded, fqid)
		}
	}
	if len(uploaded) == 0 {
		return result
	}
	sort.Strings(uploaded)

	working := result.copyShallow()
	var idsUpdated []string
	for _, fqid := range uploaded {
		job := working.JobsByID[fqid]
		err := s.provider.StartJob(ctx, StartJobInput{
			Name:         fqid,
			LanguageCode: job.LanguageCode,
			MediaURI:     s.mediaURI(job),
			MediaFormat:  job.MediaFormat,
		})
		if err != nil {
			if isThrottled(err) {
				logger.Warn("start job throttled, will retry next tick", "name", fqid, "error", err)
			} else {
				logger.Error("start job failed, will retry next tick", "name", fqid, "error", err)
			}
			break
		}
		if working.updateJob(fqid, QUEUED, "") {
			idsUpdated = append(idsUpdated, fqid)
		}
	}

	if len(idsUpdated) == 0 {
		return result
	}
	sort.Strings(idsUpdated)
	notify(TranscribeJobsUpdate{Result: working, IDsUpdated: idsUpdated})
	return working
}

// updateStatusTick is one poll tick: fetch the provider's batch-wide
// listing, fold each summary into the batch, fetch transcripts for newly
// SUCCEEDED jobs, and notify once if anything changed.
func (s *Service) updateStatusTick(ctx context.Context, result TranscribeBatchResult, batchID string, notify func(TranscribeJobsUpdate)) (TranscribeBatchResult, error) {
	fqids := make([]string, 0, len(result.JobsByID))
	for fqid := range result.JobsByID {
		fqids = append(fqids, fqid)
	}

	summaries, err := getBatchStatus(ctx, s.provider, batchID, fqids)
	if err != nil {
		return result, err
	}

	working := result.copyShallow()
	var idsUpdated []string
	for _, summary := range summaries {
		s.applySummary(ctx, working, summary, &idsUpdated)
	}

	if len(idsUpdated) == 0 {
		return working, nil
	}
	sort.Strings(idsUpdated)
	notify(TranscribeJobsUpdate{Result: working, IDsUpdated: idsUpdated})
	return working, nil
}

// applySummary folds a single provider summary into working, appending to
// idsUpdated on a real change. Any failure handling this one summary is
// logged and skipped — it must never abort the rest of the tick.
func (s *Service) applySummary(ctx context.Context, working TranscribeBatchResult, summary JobSummary, idsUpdated *[]string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic handling provider summary, skipping", "name", summary.Name, "panic", r)
		}
	}()

	status := parseProviderStatus(summary.Status)
	if status == NONE {
		logger.Warn("provider reported unknown status, skipping", "name", summary.Name, "status", summary.Status)
		return
	}
	if working.jobCompleted(summary.Name, status) {
		return
	}

	transcript := ""
	if status == SUCCEEDED {
		t, err := loadTranscript(ctx, s.provider, s.http, summary.Name)
		if err != nil {
			logger.Error("failed to load transcript, will retry next tick", "name", summary.Name, "error", err)
			return
		}
		transcript = t
	}

	if working.updateJob(summary.Name, status, transcript) {
		*idsUpdated = append(*idsUpdated, summary.Name)
	}
}

// notifier wraps a caller-supplied onUpdate so a panicking observer never
// takes down the batch. A nil onUpdate is a no-op.
func (s *Service) notifier(onUpdate func(TranscribeJobsUpdate)) func(TranscribeJobsUpdate) {
	if onUpdate == nil {
		return func(TranscribeJobsUpdate) {}
	}
	return func(update TranscribeJobsUpdate) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("update observer panicked, swallowing", "panic", r)
			}
		}()
		onUpdate(update)
	}
}

// getS3Path derives the upload key for a source file under this job's
// fqid: "{rootPath}/{fqid-lowercased}{ext}", or just the suffix when
// rootPath is empty.
func (s *Service) getS3Path(sourceFile, fqid string) string {
	suffix := strings.ToLower(fqid) + filepath.Ext(sourceFile)
	if s.cfg.RootPath == "" {
		return suffix
	}
	return s.cfg.RootPath + "/" + suffix
}

// mediaURI builds the virtual path-style S3 URL handed to the provider as
// MediaFileUri.
func (s *Service) mediaURI(job TranscribeJob) string {
	key := s.getS3Path(job.SourceFile, job.FQID())
	return fmt.Sprintf("https://s3.%s.amazonaws.com/%s/%s", s.cfg.Region, s.cfg.Bucket, key)
}
