// internal/app/system/limits/limits.go
package limits

// Request body size limits. These limits help prevent memory
// exhaustion from oversized requests.
const (
	// MaxJSONBodySize is the maximum size for JSON request bodies.
	MaxJSONBodySize = 1 << 20 // 1 MB

	// MaxUploadSize is the maximum size for a single file upload.
	// Multipart parsing holds up to this much in memory before
	// spilling to disk.
	MaxUploadSize = 25 << 20 // 25 MB
)
