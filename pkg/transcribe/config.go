package transcribe

import "time"

// Config holds the resolved, typed configuration a Service needs. Callers
// normally build one via internal/txconfig.Load rather than constructing
// it by hand; it is exported here so the orchestration logic in this
// package stays pure data-in, with no env/config-map lookups of its own.
type Config struct {
	Region          string
	Bucket          string
	RootPath        string
	AccessKeyID     string
	SecretAccessKey string
	PollInterval    time.Duration
}
