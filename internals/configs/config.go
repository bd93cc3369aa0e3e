package configs

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var (
	JWTSecret        string
	JWTRefreshSecret string

	// CCB API credentials, consumed by the ccbsync feature.
	CCBBaseURL   string
	CCBSubdomain string
	CCBUsername  string
	CCBPassword  string

	// Shared secret gating the sync trigger endpoints (external scheduler).
	SyncSharedSecret string

	// Cron spec for the in-process daily sync job ("" disables it).
	SyncCron string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ No .env file found, using system ENV")
		} else {
			log.Println("✅ .env file loaded!")
		}
	} else {
		log.Println("🚀 Running in Railway, using system ENV")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET")

	CCBBaseURL = GetEnv("CCB_API_URL")
	CCBSubdomain = GetEnv("CCB_SUBDOMAIN")
	CCBUsername = GetEnv("CCB_API_USER")
	CCBPassword = GetEnv("CCB_API_PASSWORD")

	SyncSharedSecret = GetEnv("SYNC_SHARED_SECRET")
	SyncCron = GetEnv("SYNC_CRON", "0 3 * * *")

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set!")
	} else {
		log.Println("✅ JWT_SECRET loaded.")
	}

	if CCBBaseURL == "" && CCBSubdomain == "" {
		log.Println("❌ Neither CCB_API_URL nor CCB_SUBDOMAIN is set — CCB sync will fail!")
	} else {
		log.Println("✅ CCB endpoint config loaded.")
	}

	if SyncSharedSecret == "" {
		log.Println("⚠️ SYNC_SHARED_SECRET is not set — sync endpoints are open!")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return strings.TrimSpace(value)
}
