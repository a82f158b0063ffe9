// File: internal/config/keys.go
package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

type KeyType int

const (
	StringKey KeyType = iota
	BoolKey
	DurationKey
)

func (t KeyType) String() string {
	switch t {
	case BoolKey:
		return "bool"
	case DurationKey:
		return "duration"
	default:
		return "string"
	}
}

type KeySpec struct {
	Name        string
	Type        KeyType
	Secret      bool
	Description string
}

var knownKeys = []KeySpec{
	{Name: "gcp.project", Description: "Google Cloud project that owns the buckets (required)"},
	{Name: "gcp.credentials_file", Description: "Service account JSON file; application default credentials when unset"},
	{Name: "gcp.endpoint", Description: "Alternative Cloud Storage endpoint, e.g. an emulator"},
	{Name: "gcp.signer_email", Description: "Service account email used to sign URLs"},
	{Name: "gcp.private_key_file", Description: "PEM private key used to sign URLs"},
	{Name: "gcp.signed_url_expiry", Type: DurationKey, Description: "Lifetime of signed URLs (default 15m)"},
	{Name: "aws.region", Description: "Default AWS region (required)"},
	{Name: "aws.profile", Description: "Shared config profile"},
	{Name: "aws.endpoint", Description: "Alternative S3 endpoint URL"},
	{Name: "aws.use_path_style", Type: BoolKey, Description: "Address buckets by path instead of virtual host"},
	{Name: "minio.endpoint", Description: "MinIO server host:port or URL (required)"},
	{Name: "minio.access_key", Description: "Access key"},
	{Name: "minio.secret_key", Secret: true, Description: "Secret key"},
	{Name: "minio.use_ssl", Type: BoolKey, Description: "Connect over TLS"},
	{Name: "minio.region", Description: "Region used for bucket creation and signing (default us-east-1)"},
	{Name: "minio.signed_url_expiry", Type: DurationKey, Description: "Lifetime of presigned URLs (default 15m)"},
}

// KnownKeys returns every supported configuration key, sorted by name
func KnownKeys() []KeySpec {
	keys := make([]KeySpec, len(knownKeys))
	copy(keys, knownKeys)
	sort.Slice(keys, func(i, j int) bool { return keys[i].Name < keys[j].Name })
	return keys
}

func LookupKey(name string) (KeySpec, bool) {
	name = strings.ToLower(name)
	for _, spec := range knownKeys {
		if spec.Name == name {
			return spec, true
		}
	}
	return KeySpec{}, false
}

// IsSecret reports whether the value of a key should be masked when displayed
func IsSecret(name string) bool {
	spec, ok := LookupKey(name)
	return ok && spec.Secret
}

func lookupKey(name string) (KeySpec, error) {
	if !strings.Contains(name, ".") {
		return KeySpec{}, fmt.Errorf("invalid config key format: %s. Use format like 'provider.key' (e.g., 'gcp.project')", name)
	}
	spec, ok := LookupKey(name)
	if !ok {
		return KeySpec{}, fmt.Errorf("unknown config key: %s", name)
	}
	return spec, nil
}

// Parses a raw command-line value into the representation stored in the config file
func (s KeySpec) parse(raw string) (any, error) {
	switch s.Type {
	case BoolKey:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s expects a boolean, got %q", s.Name, raw)
		}
		return b, nil
	case DurationKey:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("%s expects a duration like 15m or 2h, got %q", s.Name, raw)
		}
		if d < 0 {
			return nil, fmt.Errorf("%s must not be negative", s.Name)
		}
		return d.String(), nil
	default:
		return raw, nil
	}
}
