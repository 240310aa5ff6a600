package transcribe

import "transcribebatch/pkg/logger"

// TranscribeJobsUpdate is the snapshot handed to an onUpdate observer
// after a tick that changed at least one job. Result is a full batch
// snapshot, not a diff; IDsUpdated names just the jobs that changed on
// this particular tick, sorted lexicographically.
type TranscribeJobsUpdate struct {
	Result     TranscribeBatchResult
	IDsUpdated []string
}

// TranscribeBatchResult maps a job's fully qualified id to its current
// state. It is handled by convention as immutable: every mutation made by
// the orchestrator produces a new TranscribeBatchResult via copyShallow,
// so a snapshot handed to an observer is never retroactively mutated by a
// later tick.
type TranscribeBatchResult struct {
	JobsByID map[string]TranscribeJob
}

// NewTranscribeBatchResult materializes one TranscribeJob per request,
// keyed by FQID under the given batch id.
func NewTranscribeBatchResult(requests []TranscribeJobRequest, batchID string) TranscribeBatchResult {
	jobsByID := make(map[string]TranscribeJob, len(requests))
	for _, r := range requests {
		job := r.toJob(batchID)
		jobsByID[job.FQID()] = job
	}
	return TranscribeBatchResult{JobsByID: jobsByID}
}

// Jobs returns all jobs in the batch in no particular order.
func (r TranscribeBatchResult) Jobs() []TranscribeJob {
	jobs := make([]TranscribeJob, 0, len(r.JobsByID))
	for _, j := range r.JobsByID {
		jobs = append(jobs, j)
	}
	return jobs
}

// HasAnyUnresolved reports whether at least one job has not yet reached a
// terminal status. The orchestrator's poll loop runs until this is false.
func (r TranscribeBatchResult) HasAnyUnresolved() bool {
	for _, j := range r.JobsByID {
		if !j.Status.IsTerminal() {
			return true
		}
	}
	return false
}

// Summary aggregates per-status counts plus the derived completed/total
// totals.
func (r TranscribeBatchResult) Summary() BatchSummary {
	counts := make(map[TranscribeJobStatus]int, 6)
	completed := 0
	for _, j := range r.JobsByID {
		counts[j.Status]++
		if j.Status.IsTerminal() {
			completed++
		}
	}
	return BatchSummary{
		counts:         counts,
		CountTotal:     len(r.JobsByID),
		CountCompleted: completed,
	}
}

// copyShallow produces a new top-level result sharing no mutable map
// identity with r, so callers holding r (e.g. an observer that already
// received it) are unaffected by subsequent mutation of the copy. Job
// values themselves are plain structs and copy by value, so this is
// sufficient to isolate the map.
func (r TranscribeBatchResult) copyShallow() TranscribeBatchResult {
	cp := make(map[string]TranscribeJob, len(r.JobsByID))
	for k, v := range r.JobsByID {
		cp[k] = v
	}
	return TranscribeBatchResult{JobsByID: cp}
}

// jobCompleted reports whether the stored job for fqid is already terminal
// and its status equals incomingStatus — used to skip redundant provider
// reports before doing any transcript work. A missing fqid is not
// completed.
func (r TranscribeBatchResult) jobCompleted(fqid string, incomingStatus TranscribeJobStatus) bool {
	job, ok := r.JobsByID[fqid]
	if !ok {
		return false
	}
	return job.Status.IsTerminal() && job.Status == incomingStatus
}

// updateJob mutates the job at fqid in place and reports whether anything
// actually changed. Any update to an already-terminal job is rejected
// silently; a status regression (moving to an earlier lifecycle stage) is
// rejected with a logged warning. Both enforce the monotonicity
// invariant. Call on a fresh copyShallow() result, never on a result
// already handed to an observer.
func (r TranscribeBatchResult) updateJob(fqid string, status TranscribeJobStatus, transcript string) bool {
	job, ok := r.JobsByID[fqid]
	if !ok {
		return false
	}
	if job.Status.IsTerminal() {
		return false
	}
	if status < job.Status {
		logger.Warn("ignoring status regression", "fqid", fqid, "from", job.Status, "to", status)
		return false
	}

	changed := false
	if status != NONE && status != job.Status {
		job.Status = status
		changed = true
	}
	if transcript != "" && transcript != job.Transcript {
		job.Transcript = transcript
		changed = true
	}
	if !changed {
		return false
	}
	r.JobsByID[fqid] = job
	return true
}
