// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP ports,
// TLS, logging level, and CORS. AppConfig is where everything specific
// to TaskHive lives: the Mongo connection, JWT signing, upload storage,
// login rate limiting, and activity logging.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max driver connection pool size
	MongoMinPoolSize uint64 // Min driver connection pool size

	// JWT configuration
	JWTSecret string        // HMAC signing secret (must be strong in production)
	JWTExpiry time.Duration // Token lifetime (default: 7 days)

	// Upload storage configuration
	UploadDir string // Local directory attachment bytes are written under
	UploadURL string // URL prefix the upload directory is served at (e.g., "/uploads")

	// Login rate limiting
	LoginRateLimit  int           // Attempts allowed per IP per window
	LoginRateWindow time.Duration // Window duration

	// Activity/notification fan-out: "all" (db+log), "db", "log", or "off"
	ActivityLog string
}
