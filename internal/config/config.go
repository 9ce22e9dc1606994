// Package config loads configuration from environment variables.
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Env holds the configuration values for the application.
type Env struct {
	Region            string `mapstructure:"AWS_REGION"`
	Table             string `mapstructure:"DDB_TABLE"`
	Bucket            string `mapstructure:"S3_BUCKET"`
	PresignTTLSeconds int    `mapstructure:"PRESIGN_TTL_SECONDS"`
	ClaimIDPrefix     string `mapstructure:"CLAIM_ID_PREFIX"`
	DevBypassAuth     bool   `mapstructure:"DEV_BYPASS_AUTH"`
}

// PresignTTL returns the lifetime of presigned upload and download URLs.
func (e Env) PresignTTL() time.Duration {
	return time.Duration(e.PresignTTLSeconds) * time.Second
}

// Load reads configuration from the environment.
func Load() (Env, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("PRESIGN_TTL_SECONDS", 300)
	v.SetDefault("CLAIM_ID_PREFIX", "CSHLSIP")
	v.SetDefault("DEV_BYPASS_AUTH", false)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range []string{
		"AWS_REGION", "DDB_TABLE", "S3_BUCKET",
		"PRESIGN_TTL_SECONDS", "CLAIM_ID_PREFIX", "DEV_BYPASS_AUTH",
	} {
		v.BindEnv(k)
	}

	var e Env
	if err := v.Unmarshal(&e); err != nil {
		return Env{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if e.Table == "" {
		return Env{}, fmt.Errorf("missing env DDB_TABLE")
	}
	if e.Bucket == "" {
		return Env{}, fmt.Errorf("missing env S3_BUCKET")
	}
	return e, nil
}

// MustLoad reads the environment and exits the process on failure.
func MustLoad() Env {
	e, err := Load()
	if err != nil {
		log.Fatal(err)
	}
	return e
}
