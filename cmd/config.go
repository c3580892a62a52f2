package cmd

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/pkg/errs"
)

const defaultSignedURLTTL = 15 * time.Minute

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	JWTSecret string

	GatewayURL         string
	GatewayToken       string
	GatewayCallbackURL string
	GatewayWebhookKey  string

	S3Region          string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Endpoint        string
	SignedURLTTL      string

	// RedisAddr is optional. Without it jobs run unlocked, which is only safe
	// with a single instance.
	RedisAddr     string
	RedisPassword string
}

func (c Config) Validate() error {
	return errors.Join(
		required("HTTP_PORT", c.HTTPPort),
		required("DB_HOST", c.DBHost),
		required("DB_PORT", c.DBPort),
		required("DB_USER", c.DBUser),
		required("DB_NAME", c.DBName),
		required("JWT_SECRET", c.JWTSecret),
		required("GATEWAY_URL", c.GatewayURL),
		required("GATEWAY_WEBHOOK_KEY", c.GatewayWebhookKey),
		required("S3_REGION", c.S3Region),
		required("S3_BUCKET", c.S3Bucket),
	)
}

func (c Config) DSN() string {
	sslMode := c.DBSslMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, sslMode)
}

// URLTTL returns how long presigned deliverable links stay valid.
func (c Config) URLTTL() (time.Duration, error) {
	if c.SignedURLTTL == "" {
		return defaultSignedURLTTL, nil
	}
	ttl, err := time.ParseDuration(c.SignedURLTTL)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause("SIGNED_URL_TTL", err)
	}
	if ttl <= 0 {
		return 0, errs.NewValueIsOutOfRangeError("SIGNED_URL_TTL", ttl, time.Second, 24*time.Hour)
	}
	return ttl, nil
}

func required(name, value string) error {
	if value == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}
