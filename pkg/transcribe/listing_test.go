package transcribe

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedLister struct {
	pages []ListJobsOutput
	errs  []error
	calls []ListJobsInput
}

func (l *scriptedLister) StartJob(context.Context, StartJobInput) error { return nil }

func (l *scriptedLister) ListJobs(ctx context.Context, in ListJobsInput) (ListJobsOutput, error) {
	idx := len(l.calls)
	l.calls = append(l.calls, in)
	if idx < len(l.errs) && l.errs[idx] != nil {
		return ListJobsOutput{}, l.errs[idx]
	}
	if idx < len(l.pages) {
		return l.pages[idx], nil
	}
	return ListJobsOutput{}, nil
}

func (l *scriptedLister) GetJob(context.Context, string) (JobDescriptor, error) {
	return JobDescriptor{}, fmt.Errorf("not implemented")
}

func TestGetBatchStatus_FollowsPagination(t *testing.T) {
	provider := &scriptedLister{
		pages: []ListJobsOutput{
			{Summaries: []JobSummary{{Name: "b1-u1", Status: "QUEUED"}}, NextPageToken: "p2"},
			{Summaries: []JobSummary{{Name: "b1-u2", Status: "QUEUED"}}},
		},
	}

	summaries, err := getBatchStatus(context.Background(), provider, "b1", []string{"b1-u1", "b1-u2"})
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
	require.Len(t, provider.calls, 2)
	assert.Equal(t, "p2", provider.calls[1].PageToken)
}

func TestGetBatchStatus_ShortCircuitsOnExpectedSetExhausted(t *testing.T) {
	provider := &scriptedLister{
		pages: []ListJobsOutput{
			{Summaries: []JobSummary{{Name: "b1-u1", Status: "QUEUED"}}, NextPageToken: "p2"},
		},
	}

	summaries, err := getBatchStatus(context.Background(), provider, "b1", []string{"b1-u1"})
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Len(t, provider.calls, 1, "must not follow NextPageToken once every expected id is observed")
}

func TestGetBatchStatus_StopsOnEmptyPageDespiteToken(t *testing.T) {
	provider := &scriptedLister{
		pages: []ListJobsOutput{
			{Summaries: nil, NextPageToken: "p2"},
			{Summaries: []JobSummary{{Name: "b1-u1", Status: "QUEUED"}}},
		},
	}

	summaries, err := getBatchStatus(context.Background(), provider, "b1", []string{"b1-u1"})
	require.NoError(t, err)
	assert.Empty(t, summaries)
	assert.Len(t, provider.calls, 1, "an empty page must stop pagination even with a non-empty token")
}

func TestGetBatchStatus_ThrottleReturnsPartialWithoutError(t *testing.T) {
	provider := &scriptedLister{
		pages: []ListJobsOutput{
			{Summaries: []JobSummary{{Name: "b1-u1", Status: "QUEUED"}}, NextPageToken: "p2"},
		},
		errs: []error{nil, fmt.Errorf("ThrottlingException: slow down")},
	}

	summaries, err := getBatchStatus(context.Background(), provider, "b1", []string{"b1-u1", "b1-u2"})
	require.NoError(t, err)
	assert.Len(t, summaries, 1)
}

func TestGetBatchStatus_NonThrottleErrorPropagates(t *testing.T) {
	provider := &scriptedLister{
		errs: []error{fmt.Errorf("access denied")},
	}

	_, err := getBatchStatus(context.Background(), provider, "b1", []string{"b1-u1"})
	assert.Error(t, err)
}
