package global

import (
	"os"
	"strconv"
	"strings"

	"AstralLink/tools/ids"
)

// AppConfig carries everything the process reads from the environment.
type AppConfig struct {
	Port         int
	MongoURI     string
	Database     string
	RedisAddr    string
	RedisPass    string
	RedisDB      int
	CORSOrigins  []string // "*" allows any origin
	AuthURL      string   // external identity exchange endpoint
	CookieDomain string
	NodeID       int64
}

var Conf *AppConfig

func LoadConfig() *AppConfig {
	Conf = &AppConfig{
		Port:         getenvInt("PORT", 8080),
		MongoURI:     getenv("MONGO_URL", "mongodb://localhost:27017"),
		Database:     getenv("DB_NAME", "astrallink"),
		RedisAddr:    getenv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPass:    getenv("REDIS_PASSWORD", ""),
		RedisDB:      getenvInt("REDIS_DB", 0),
		CORSOrigins:  strings.Split(getenv("CORS_ORIGINS", "*"), ","),
		AuthURL:      getenv("AUTH_URL", "https://demobackend.emergentagent.com/auth/v1/env/oauth/session-data"),
		CookieDomain: getenv("COOKIE_DOMAIN", ""),
		NodeID:       int64(getenvInt("NODE_ID", 100)),
	}
	return Conf
}

func ConfigIds() {
	if Conf != nil {
		ids.SetNodeID(Conf.NodeID)
		return
	}
	ids.SetNodeID(100)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
