package cmd

import (
	"fmt"
	"time"
)

// Config carries everything the process needs to start: HTTP binding,
// database and cache endpoints, the geocoding upstream, and the tracking
// staleness windows.
type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string

	GeocoderBaseURL string
	GeocoderRegion  string

	// LocationStaleAfter is the age at which a stored driver position stops
	// being trusted and gets swept.
	LocationStaleAfter time.Duration

	// LivePositionTTL is the lifetime of cached live positions.
	LivePositionTTL time.Duration
}

// DBConnectionString renders the postgres DSN for GORM.
func (c Config) DBConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode,
	)
}
