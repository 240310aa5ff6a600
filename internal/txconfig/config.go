// Package txconfig resolves the service's configuration from a
// caller-supplied map with environment-variable fallback: a config-map
// value wins when present and non-empty, otherwise the first non-empty
// env var in the fallback list wins (a TRANSCRIBE_-prefixed name always
// precedes the plain AWS_* name).
package txconfig

import (
	"time"

	"github.com/spf13/viper"

	"transcribebatch/pkg/transcribe"
)

const defaultPollIntervalSeconds = 5.0

// envFallbacks lists, for each recognized config-map key, the env var
// names consulted in order when the map has no value for that key.
var envFallbacks = map[string][]string{
	"AWS_REGION":                      {"TRANSCRIBE_AWS_REGION", "AWS_REGION"},
	"AWS_ACCESS_KEY_ID":               {"TRANSCRIBE_AWS_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID"},
	"AWS_SECRET_ACCESS_KEY":           {"TRANSCRIBE_AWS_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY"},
	"TRANSCRIBE_AWS_S3_BUCKET_SOURCE": {"TRANSCRIBE_AWS_S3_BUCKET_SOURCE"},
	"TRANSCRIBE_AWS_S3_ROOT_PATH":     {"TRANSCRIBE_AWS_S3_ROOT_PATH"},
	"POLL_INTERVAL":                   {"TRANSCRIBE_AWS_POLL_INTERVAL"},
}

// Load resolves transcribe.Config from values (caller-supplied config map)
// with environment fallback. It returns *transcribe.MissingConfigError for
// any of the four required keys (region, credentials, bucket) that
// resolve to nothing.
func Load(values map[string]string) (transcribe.Config, error) {
	v := viper.New()
	for key, names := range envFallbacks {
		_ = v.BindEnv(key, names...)
	}
	v.SetDefault("TRANSCRIBE_AWS_S3_ROOT_PATH", "")

	for key, val := range values {
		if val != "" {
			v.Set(key, val)
		}
	}

	region, err := require(v, "AWS_REGION")
	if err != nil {
		return transcribe.Config{}, err
	}
	accessKeyID, err := require(v, "AWS_ACCESS_KEY_ID")
	if err != nil {
		return transcribe.Config{}, err
	}
	secretAccessKey, err := require(v, "AWS_SECRET_ACCESS_KEY")
	if err != nil {
		return transcribe.Config{}, err
	}
	bucket, err := require(v, "TRANSCRIBE_AWS_S3_BUCKET_SOURCE")
	if err != nil {
		return transcribe.Config{}, err
	}

	pollSeconds := defaultPollIntervalSeconds
	if v.IsSet("POLL_INTERVAL") {
		pollSeconds = v.GetFloat64("POLL_INTERVAL")
	}

	return transcribe.Config{
		Region:          region,
		AccessKeyID:     accessKeyID,
		SecretAccessKey: secretAccessKey,
		Bucket:          bucket,
		RootPath:        v.GetString("TRANSCRIBE_AWS_S3_ROOT_PATH"),
		PollInterval:    time.Duration(pollSeconds * float64(time.Second)),
	}, nil
}

func require(v *viper.Viper, key string) (string, error) {
	val := v.GetString(key)
	if val != "" {
		return val, nil
	}
	return "", &transcribe.MissingConfigError{EnvNames: envFallbacks[key]}
}
