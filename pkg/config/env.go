package config

import (
	"os"
	"strings"
)

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// GetEnv returns the value of an environment variable or a default value if not set.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsProduction reports whether the given environment string means production.
func IsProduction(environment string) bool {
	return strings.EqualFold(environment, EnvProduction)
}

// IsDevelopment reports whether the given environment string means development.
func IsDevelopment(environment string) bool {
	return environment == "" || strings.EqualFold(environment, EnvDevelopment)
}
