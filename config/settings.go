package config

import (
	"fmt"
	"time"
)

type ServerSettings struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	AcceptedOrigins []string
	Development     bool
}

type DatabaseSettings struct {
	// Type selects the connection: "supa", "postgres" or "" for the bundled snapshot.
	Type       string
	DSN        string
	ReplicaDSN string
	Migrate    bool
}

type StorageSettings struct {
	// Driver is "s3", "minio" or "none".
	Driver    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
	UseSSL    bool
}

type AuthSettings struct {
	JWTSecret string
	Audience  string
}

// Settings groups every option the service reads from the environment.
type Settings struct {
	Server   ServerSettings
	Database DatabaseSettings
	Storage  StorageSettings
	Auth     AuthSettings
	LogLevel string
}

const DefaultBucket = "project-media"

func Load(c map[string]string) Settings {
	return Settings{
		Server: ServerSettings{
			Port:            GetString(c, "PORT", "8080"),
			ReadTimeout:     time.Duration(GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second,
			WriteTimeout:    time.Duration(GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second,
			IdleTimeout:     time.Duration(GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second,
			AcceptedOrigins: GetStrings(c, "ACCEPTED_ORIGINS"),
			Development:     GetString(c, "ENV", "development") == "development",
		},
		Database: DatabaseSettings{
			Type:       GetString(c, "DB_TYPE", ""),
			DSN:        databaseDSN(c),
			ReplicaDSN: GetString(c, "DB_REPLICA_DSN", ""),
			Migrate:    GetBool(c, "DB_AUTO_MIGRATE", false),
		},
		Storage: StorageSettings{
			Driver:    GetString(c, "STORAGE_DRIVER", "none"),
			Endpoint:  GetString(c, "STORAGE_ENDPOINT", ""),
			Region:    GetString(c, "STORAGE_REGION", "us-east-1"),
			AccessKey: GetString(c, "STORAGE_ACCESS_KEY", ""),
			SecretKey: GetString(c, "STORAGE_SECRET_KEY", ""),
			Bucket:    GetString(c, "STORAGE_BUCKET", DefaultBucket),
			PublicURL: GetString(c, "STORAGE_PUBLIC_URL", ""),
			UseSSL:    GetBool(c, "STORAGE_USE_SSL", true),
		},
		Auth: AuthSettings{
			JWTSecret: GetString(c, "AUTH_JWT_SECRET", ""),
			Audience:  GetString(c, "AUTH_JWT_AUDIENCE", "authenticated"),
		},
		LogLevel: GetString(c, "LOG_LEVEL", "info"),
	}
}

func databaseDSN(c map[string]string) string {
	switch GetString(c, "DB_TYPE", "") {
	case "supa":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			GetString(c, "SUPABASE_DB_HOST", ""),
			GetString(c, "SUPABASE_DB_USER", ""),
			GetString(c, "SUPABASE_DB_PASSWORD", ""),
			GetString(c, "SUPABASE_DB_NAME", "postgres"),
			GetString(c, "SUPABASE_DB_PORT", "5432"),
		)
	case "postgres":
		return GetString(c, "DATABASE_URL", "")
	}
	return ""
}
