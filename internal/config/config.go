// File: internal/config/config.go
package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type GCPConfig struct {
	Project         string `mapstructure:"project" validate:"required"`
	CredentialsFile string `mapstructure:"credentials_file"`
	// Alternative API endpoint, e.g. a local emulator
	Endpoint string `mapstructure:"endpoint" validate:"omitempty,url"`
	// Service account used to sign URLs; detected from the credentials when empty
	SignerEmail     string        `mapstructure:"signer_email" validate:"omitempty,email"`
	PrivateKeyFile  string        `mapstructure:"private_key_file" validate:"required_with=SignerEmail"`
	SignedURLExpiry time.Duration `mapstructure:"signed_url_expiry" validate:"gte=0,lte=168h"`
}

type AWSConfig struct {
	Region       string `mapstructure:"region" validate:"required"`
	Profile      string `mapstructure:"profile"`
	Endpoint     string `mapstructure:"endpoint" validate:"omitempty,url"`
	UsePathStyle bool   `mapstructure:"use_path_style"`
}

type MinIOConfig struct {
	// host:port, or a URL whose scheme overrides UseSSL
	Endpoint        string        `mapstructure:"endpoint" validate:"required"`
	AccessKey       string        `mapstructure:"access_key"`
	SecretKey       string        `mapstructure:"secret_key" validate:"required_with=AccessKey"`
	UseSSL          bool          `mapstructure:"use_ssl"`
	Region          string        `mapstructure:"region"`
	SignedURLExpiry time.Duration `mapstructure:"signed_url_expiry" validate:"gte=0,lte=168h"`
}

// Config holds one optional block per provider. A nil block means the provider was never configured.
type Config struct {
	GCP   *GCPConfig   `mapstructure:"gcp"`
	AWS   *AWSConfig   `mapstructure:"aws"`
	MinIO *MinIOConfig `mapstructure:"minio"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their config key rather than the Go field name
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
		return name
	})
	return v
}

func (c *GCPConfig) Validate() error {
	return validateBlock("gcp", c)
}

func (c *AWSConfig) Validate() error {
	return validateBlock("aws", c)
}

func (c *MinIOConfig) Validate() error {
	return validateBlock("minio", c)
}

func validateBlock(section string, block any) error {
	err := validate.Struct(block)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("invalid %s configuration: %w", section, err)
	}

	problems := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		problems = append(problems, describeFieldError(section, fe))
	}
	return fmt.Errorf("invalid %s configuration: %s", section, strings.Join(problems, "; "))
}

func describeFieldError(section string, fe validator.FieldError) string {
	key := section + "." + fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", key)
	case "required_with":
		return fmt.Sprintf("%s is required when %s.%s is set", key, section, keyForField(fe.Param()))
	case "url":
		return fmt.Sprintf("%s must be a URL", key)
	case "email":
		return fmt.Sprintf("%s must be an email address", key)
	case "gte", "lte":
		return fmt.Sprintf("%s must be between 0 and 168h", key)
	default:
		return fmt.Sprintf("%s failed the %q check", key, fe.Tag())
	}
}

// Converts a Go field name used in a validator parameter to its config key
func keyForField(field string) string {
	var sb strings.Builder
	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' {
			sb.WriteByte('_')
		}
		sb.WriteRune(r)
	}
	return strings.ToLower(sb.String())
}
