package awsprovider

import (
	"context"
	"fmt"

	sdkconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"

	"transcribebatch/internal/txconfig"
	"transcribebatch/pkg/logger"
	core "transcribebatch/pkg/transcribe"
)

// moduleName is the registry key this package registers itself under.
const moduleName = "transcribe_aws"

func init() {
	core.RegisterFactory(moduleName, InitService)
}

// InitService resolves cfg (config map plus env fallback) and constructs
// both capability handles against real AWS services. Failure to resolve
// config or construct either client is a fatal initialization error.
func InitService(cfg map[string]string) (*core.Service, error) {
	resolved, err := txconfig.Load(cfg)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	awsCfg, err := sdkconfig.LoadDefaultConfig(ctx,
		sdkconfig.WithRegion(resolved.Region),
		sdkconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			resolved.AccessKeyID, resolved.SecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	store := NewS3ObjectStore(s3.NewFromConfig(awsCfg))
	provider := NewTranscribeProvider(transcribe.NewFromConfig(awsCfg))

	logger.Info("initialized transcribe_aws service", "region", resolved.Region, "bucket", resolved.Bucket)
	return core.NewService(resolved, store, provider), nil
}
