package httpapi

import "time"

const defaultMaxBodyBytes int64 = 20 << 20

// maxBodyBytes controls the maximum allowed upload size for /describe.
var maxBodyBytes = defaultMaxBodyBytes

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
		return
	}
	maxBodyBytes = n
}

// captionTimeout bounds a /describe request, model load included.
// Zero means no additional timeout beyond server/connection timeouts.
var captionTimeout time.Duration

// SetCaptionTimeoutSeconds sets the describe timeout in seconds (0 disables).
func SetCaptionTimeoutSeconds(sec int64) {
	if sec < 0 {
		sec = 0
	}
	captionTimeout = time.Duration(sec) * time.Second
}

// CORS configuration. Enabled for every origin by default so browser
// front-ends can call the API directly.
var (
	corsEnabled        = true
	corsAllowedOrigins = []string{"*"}
	corsAllowedMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsAllowedHeaders = []string{"*"}
)

// SetCORSOptions configures CORS behavior for the HTTP server. Empty methods
// or headers keep the defaults.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	if len(methods) > 0 {
		corsAllowedMethods = append([]string(nil), methods...)
	}
	if len(headers) > 0 {
		corsAllowedHeaders = append([]string(nil), headers...)
	}
}

var swaggerEnabled bool

// SetSwaggerEnabled toggles serving the Swagger UI under /swagger/.
func SetSwaggerEnabled(on bool) { swaggerEnabled = on }
