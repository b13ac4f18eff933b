package config

import (
	"errors"
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return errors.New("auth.access_token_ttl must be > 0")
	}
	if c.Limiter.MaxFails <= 0 {
		return fmt.Errorf("limiter.max_fails must be > 0 (got %d)", c.Limiter.MaxFails)
	}
	if c.Hosting.CloudName == "" {
		return errors.New("hosting.cloud_name is required")
	}
	if !c.Hosting.Signed() && c.Hosting.UploadPreset == "" {
		return errors.New("hosting: either upload_preset or api_key and api_secret must be set")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console (got %q)", c.Log.Format)
	}
	return nil
}
