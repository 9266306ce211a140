// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	FrontendURL        string
	ListenAddr         string
	SessionDBPath      string
	SecretKey          []byte
}

// Load reads configuration from environment variables and returns a validated
// Config. The Google OAuth client settings and the frontend redirect base are
// required: a missing value fails startup immediately rather than surfacing
// at the first authorization attempt.
//
// Optional variables: WORKOUTLOG_LISTEN_ADDR (default 127.0.0.1:3000),
// WORKOUTLOG_SESSION_DB (path; enables the persistent session store) and
// WORKOUTLOG_SECRET_KEY (64 hex chars, required when WORKOUTLOG_SESSION_DB
// is set).
func Load() (*Config, error) {
	clientID, err := required("WORKOUTLOG_GOOGLE_CLIENT_ID")
	if err != nil {
		return nil, err
	}
	clientSecret, err := required("WORKOUTLOG_GOOGLE_CLIENT_SECRET")
	if err != nil {
		return nil, err
	}
	redirectURI, err := required("WORKOUTLOG_GOOGLE_REDIRECT_URI")
	if err != nil {
		return nil, err
	}
	frontendURL, err := required("WORKOUTLOG_FRONTEND_URL")
	if err != nil {
		return nil, err
	}

	listenAddr := "127.0.0.1:3000"
	if v, ok := os.LookupEnv("WORKOUTLOG_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	sessionDBPath := os.Getenv("WORKOUTLOG_SESSION_DB")

	var secretKey []byte
	if v := os.Getenv("WORKOUTLOG_SECRET_KEY"); v != "" {
		decoded, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("WORKOUTLOG_SECRET_KEY is not valid hex: %w", err)
		}
		if len(decoded) != 32 {
			return nil, fmt.Errorf("WORKOUTLOG_SECRET_KEY must decode to 32 bytes, got %d", len(decoded))
		}
		secretKey = decoded
	}

	if sessionDBPath != "" && secretKey == nil {
		return nil, errors.New("WORKOUTLOG_SECRET_KEY is required when WORKOUTLOG_SESSION_DB is set")
	}

	return &Config{
		GoogleClientID:     clientID,
		GoogleClientSecret: clientSecret,
		GoogleRedirectURI:  redirectURI,
		FrontendURL:        frontendURL,
		ListenAddr:         listenAddr,
		SessionDBPath:      sessionDBPath,
		SecretKey:          secretKey,
	}, nil
}

// required returns the value of key or an error naming the missing variable.
func required(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}
