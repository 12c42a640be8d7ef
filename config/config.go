package config

import (
	"os"
	"strconv"
	"strings"
)

var (
	TLS_DOMAINS          = ""          // e.g. "example.com,example2.com"
	MYSQL_DSN            = ""          // MySQL will be used if this is set
	SQLITE_FILE          = "tavern.db" // SQLite will be used if MYSQL_DSN is not configured
	BIND_ADDRESS         = "0.0.0.0:8080"
	CORS_ORIGINS         = "*" // comma separated
	DEBUG_MODE           = true
	SESSION_KEY          = "this is a long key" // must be overridden in production
	SESSION_MAX_AGE      = 30 * 86400           // in seconds
	TMP_DIR              = "/tmp"               // Used for thumbnails of images kept in S3 buckets
	DEFAULT_BUCKET_DIR   = ""                   // Used for creating initial bucket
	MAX_UPLOAD_MB        = 10
	THUMB_SIZE           = 320
	ADMIN_EMAIL          = "" // Initial site admin, only created when there are no users yet
	ADMIN_PASSWORD       = ""
	INVITATION_TTL_HOURS = 7 * 24
)

func init() {
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvString("CORS_ORIGINS", &CORS_ORIGINS)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("SESSION_KEY", &SESSION_KEY)
	readEnvInt("SESSION_MAX_AGE", &SESSION_MAX_AGE)
	readEnvString("TMP_DIR", &TMP_DIR)
	readEnvString("DEFAULT_BUCKET_DIR", &DEFAULT_BUCKET_DIR)
	readEnvInt("MAX_UPLOAD_MB", &MAX_UPLOAD_MB)
	readEnvInt("THUMB_SIZE", &THUMB_SIZE)
	readEnvString("ADMIN_EMAIL", &ADMIN_EMAIL)
	readEnvString("ADMIN_PASSWORD", &ADMIN_PASSWORD)
	readEnvInt("INVITATION_TTL_HOURS", &INVITATION_TTL_HOURS)
}

// CorsOrigins splits CORS_ORIGINS into a list
func CorsOrigins() []string {
	result := []string{}
	for _, origin := range strings.Split(CORS_ORIGINS, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}

func readEnvInt(name string, value *int) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	*value = f
}
