package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

const (
	envVarsPrefix = "/studynotes/prod/"
	ssmRegion     = "us-east-2"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	StorageLocal    = "local"
	StorageS3       = "s3"
	StorageSupabase = "supabase"
)

type Config struct {
	Env       string
	Port      int
	JWTSecret string
	TokenTTL  time.Duration
	NodeID    int64

	Database   DatabaseConfig
	Storage    StorageConfig
	Validation ValidationConfig

	ReconcileInterval time.Duration

	// AuthRateLimit is the number of login/register requests allowed
	// per second for a single client IP.
	AuthRateLimit float64
}

type DatabaseConfig struct {
	Driver string
	Path   string // sqlite only
	URL    string // postgres only
}

type StorageConfig struct {
	Driver    string
	UploadDir string

	S3Region string
	S3Bucket string

	SupabaseURL    string
	SupabaseKey    string
	SupabaseBucket string
}

type ValidationConfig struct {
	// Threshold is how many validations a note needs before it is listed
	// as validated.
	Threshold      int
	UploaderReward int
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load populates the process environment (AWS SSM Parameter Store in
// production, a .env file otherwise) and reads the configuration from it.
func Load(ctx context.Context) (*Config, error) {
	if os.Getenv("GO_ENV") == "production" {
		if err := loadProdEnv(ctx); err != nil {
			return nil, err
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv reads the configuration from environment variables, applying
// defaults for everything except JWT_SECRET.
func FromEnv() (*Config, error) {
	p := &envParser{}
	cfg := &Config{
		Env:       getString("GO_ENV", "development"),
		Port:      p.int("PORT", 5000),
		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  p.duration("TOKEN_TTL", 24*time.Hour),
		NodeID:    int64(p.int("NODE_ID", 1)),
		Database: DatabaseConfig{
			Driver: getString("DB_DRIVER", DriverSQLite),
			Path:   getString("DATABASE_PATH", "database.db"),
			URL:    os.Getenv("DATABASE_URL"),
		},
		Storage: StorageConfig{
			Driver:         getString("STORAGE_DRIVER", StorageLocal),
			UploadDir:      getString("UPLOAD_DIR", "uploads"),
			S3Region:       os.Getenv("AWS_S3_REGION"),
			S3Bucket:       os.Getenv("S3_BUCKET_NAME"),
			SupabaseURL:    os.Getenv("SUPABASE_URL"),
			SupabaseKey:    os.Getenv("SUPABASE_KEY"),
			SupabaseBucket: getString("SUPABASE_BUCKET", "uploads"),
		},
		Validation: ValidationConfig{
			Threshold:      p.int("VALIDATION_THRESHOLD", 3),
			UploaderReward: p.int("UPLOADER_REWARD", 1),
		},
		ReconcileInterval: p.duration("RECONCILE_INTERVAL", time.Hour),
		AuthRateLimit:     p.float("AUTH_RATE_LIMIT", 5),
	}

	if p.err != nil {
		return nil, p.err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.Validation.Threshold < 1 {
		errs = append(errs, errors.New("VALIDATION_THRESHOLD must be at least 1"))
	}
	if c.Validation.UploaderReward < 0 {
		errs = append(errs, errors.New("UPLOADER_REWARD cannot be negative"))
	}
	if c.ReconcileInterval <= 0 {
		errs = append(errs, errors.New("RECONCILE_INTERVAL must be positive"))
	}
	if c.AuthRateLimit <= 0 {
		errs = append(errs, errors.New("AUTH_RATE_LIMIT must be positive"))
	}

	switch c.Database.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver))
	}

	switch c.Storage.Driver {
	case StorageLocal:
	case StorageS3:
		if c.Storage.S3Region == "" || c.Storage.S3Bucket == "" {
			errs = append(errs, errors.New("AWS_S3_REGION and S3_BUCKET_NAME are required for the s3 storage"))
		}
	case StorageSupabase:
		if c.Storage.SupabaseURL == "" || c.Storage.SupabaseKey == "" {
			errs = append(errs, errors.New("SUPABASE_URL and SUPABASE_KEY are required for the supabase storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver))
	}
	return errors.Join(errs...)
}

func loadProdEnv(ctx context.Context) error {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(ssmRegion))
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := ssm.NewFromConfig(cfg)
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(envVarsPrefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})

	prefixLength := len(envVarsPrefix)
	loaded := 0
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("unable to load prod environment: %w", err)
		}

		// Export vars
		for _, param := range out.Parameters {
			key := (*param.Name)[prefixLength:]
			if err := os.Setenv(key, aws.ToString(param.Value)); err != nil {
				return fmt.Errorf("unable to set environment variable %s: %w", key, err)
			}
			loaded++
		}
	}
	log.Debugf("loaded %d prod environment variables", loaded)
	return nil
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envParser remembers the first parse failure so FromEnv can read every
// key before reporting.
type envParser struct {
	err error
}

func (p *envParser) int(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return v
}

func (p *envParser) float(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return v
}

func (p *envParser) duration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return v
}

func (p *envParser) fail(key, raw string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid value %q for %s: %w", raw, key, err)
	}
}
