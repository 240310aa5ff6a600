package awsprovider

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"
	"github.com/aws/aws-sdk-go-v2/service/transcribe/types"

	core "transcribebatch/pkg/transcribe"
)

// TranscribeProvider implements core.Provider against Amazon Transcribe.
type TranscribeProvider struct {
	client *transcribe.Client
}

// NewTranscribeProvider builds a TranscribeProvider around an AWS Transcribe client.
func NewTranscribeProvider(client *transcribe.Client) *TranscribeProvider {
	return &TranscribeProvider{client: client}
}

func (p *TranscribeProvider) StartJob(ctx context.Context, in core.StartJobInput) error {
	_, err := p.client.StartTranscriptionJob(ctx, &transcribe.StartTranscriptionJobInput{
		TranscriptionJobName: aws.String(in.Name),
		LanguageCode:         types.LanguageCode(in.LanguageCode),
		Media:                &types.Media{MediaFileUri: aws.String(in.MediaURI)},
		MediaFormat:          types.MediaFormat(in.MediaFormat),
	})
	if err != nil {
		return fmt.Errorf("start transcription job %q: %w", in.Name, err)
	}
	return nil
}

func (p *TranscribeProvider) ListJobs(ctx context.Context, in core.ListJobsInput) (core.ListJobsOutput, error) {
	input := &transcribe.ListTranscriptionJobsInput{
		JobNameContains: aws.String(in.Containing),
	}
	if in.PageToken != "" {
		input.NextToken = aws.String(in.PageToken)
	}

	out, err := p.client.ListTranscriptionJobs(ctx, input)
	if err != nil {
		return core.ListJobsOutput{}, fmt.Errorf("list transcription jobs containing %q: %w", in.Containing, err)
	}

	summaries := make([]core.JobSummary, 0, len(out.TranscriptionJobSummaries))
	for _, s := range out.TranscriptionJobSummaries {
		summaries = append(summaries, core.JobSummary{
			Name:   aws.ToString(s.TranscriptionJobName),
			Status: string(s.TranscriptionJobStatus),
		})
	}

	return core.ListJobsOutput{
		Summaries:     summaries,
		NextPageToken: aws.ToString(out.NextToken),
	}, nil
}

func (p *TranscribeProvider) GetJob(ctx context.Context, name string) (core.JobDescriptor, error) {
	out, err := p.client.GetTranscriptionJob(ctx, &transcribe.GetTranscriptionJobInput{
		TranscriptionJobName: aws.String(name),
	})
	if err != nil {
		return core.JobDescriptor{}, fmt.Errorf("get transcription job %q: %w", name, err)
	}
	if out.TranscriptionJob == nil {
		return core.JobDescriptor{}, fmt.Errorf("get transcription job %q: empty response", name)
	}

	descriptor := core.JobDescriptor{
		Status: string(out.TranscriptionJob.TranscriptionJobStatus),
	}
	if t := out.TranscriptionJob.Transcript; t != nil {
		descriptor.TranscriptURI = aws.ToString(t.TranscriptFileUri)
	}
	return descriptor, nil
}
