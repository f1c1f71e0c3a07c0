package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Blockchain BlockchainConfig
	IPFS       IPFSConfig
	Scanner    ScannerConfig
	Cache      CacheConfig
	Registry   RegistryConfig
	Security   SecurityConfig
	Backfill   BackfillConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port              string
	Env               string
	CORSAllowedOrigin string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL          string
	Password     string
	ScanCacheTTL time.Duration
}

// JWTConfig holds admin token configuration
type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// BlockchainConfig describes the single EVM chain the backend reads from.
type BlockchainConfig struct {
	RPCURL             string
	ChainID            string
	MarketplaceAddress string
	LaunchpadAddress   string
	ListingScanCap     int
}

// IPFSConfig controls token metadata fetching.
type IPFSConfig struct {
	GatewayURL       string
	FetchTimeout     time.Duration
	PlaceholderImage string
}

// ScannerConfig holds the collection scan defaults.
type ScannerConfig struct {
	DefaultLimit          int
	ProbeCap              int
	ProbeFactor           int
	Concurrency           int
	WindowPolicy          string
	SortPolicy            string
	CollapseProbeFailures bool
}

type CacheConfig struct {
	CollectionTTL time.Duration
}

type RegistryConfig struct {
	VerifiedCollectionsFile string
}

// SecurityConfig holds the bcrypt hash of the static admin key.
type SecurityConfig struct {
	AdminAPIKeyHash string
}

type BackfillConfig struct {
	Interval      time.Duration
	LogBlockSpan  uint64
	ScanLimit     int
	PersistTokens bool
	FromLogs      bool
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              getEnv("SERVER_PORT", "8080"),
			Env:               getEnv("SERVER_ENV", "development"),
			CORSAllowedOrigin: getEnv("CORS_ALLOWED_ORIGIN", "*"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "nft_launchpad"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:          getEnv("REDIS_URL", "redis://localhost:6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			ScanCacheTTL: getEnvAsDuration("REDIS_SCAN_CACHE_TTL", 60*time.Second),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-this-in-production"),
			Expiry: getEnvAsDuration("JWT_EXPIRY", 12*time.Hour),
		},
		Blockchain: BlockchainConfig{
			RPCURL:             getEnv("BLOCKCHAIN_RPC_URL", "http://127.0.0.1:8545"),
			ChainID:            getEnv("BLOCKCHAIN_CHAIN_ID", "eip155:31337"),
			MarketplaceAddress: strings.ToLower(getEnv("MARKETPLACE_CONTRACT_ADDRESS", "")),
			LaunchpadAddress:   strings.ToLower(getEnv("LAUNCHPAD_CONTRACT_ADDRESS", "")),
			ListingScanCap:     getEnvAsInt("BLOCKCHAIN_LISTING_SCAN_CAP", 200),
		},
		IPFS: IPFSConfig{
			GatewayURL:       strings.TrimRight(getEnv("IPFS_GATEWAY_URL", "https://ipfs.io"), "/"),
			FetchTimeout:     getEnvAsDuration("METADATA_FETCH_TIMEOUT", 5*time.Second),
			PlaceholderImage: getEnv("PLACEHOLDER_IMAGE_URL", "/placeholder.svg"),
		},
		Scanner: ScannerConfig{
			DefaultLimit:          getEnvAsInt("SCANNER_DEFAULT_LIMIT", 20),
			ProbeCap:              getEnvAsInt("SCANNER_PROBE_CAP", 100),
			ProbeFactor:           getEnvAsInt("SCANNER_PROBE_FACTOR", 2),
			Concurrency:           getEnvAsInt("SCANNER_CONCURRENCY", 1),
			WindowPolicy:          getEnv("SCANNER_WINDOW_POLICY", "recent"),
			SortPolicy:            getEnv("SCANNER_SORT_POLICY", "verified_then_token_id"),
			CollapseProbeFailures: getEnvAsBool("SCANNER_COLLAPSE_PROBE_FAILURES", false),
		},
		Cache: CacheConfig{
			CollectionTTL: getEnvAsDuration("COLLECTION_CACHE_TTL", time.Hour),
		},
		Registry: RegistryConfig{
			VerifiedCollectionsFile: getEnv("VERIFIED_COLLECTIONS_FILE", ""),
		},
		Security: SecurityConfig{
			AdminAPIKeyHash: getEnv("ADMIN_API_KEY_HASH", ""),
		},
		Backfill: BackfillConfig{
			Interval:      getEnvAsDuration("BACKFILL_INTERVAL", 10*time.Minute),
			LogBlockSpan:  uint64(getEnvAsInt("BACKFILL_LOG_BLOCK_SPAN", 5000)),
			ScanLimit:     getEnvAsInt("BACKFILL_SCAN_LIMIT", 50),
			PersistTokens: getEnvAsBool("BACKFILL_PERSIST_TOKENS", true),
			FromLogs:      getEnvAsBool("BACKFILL_FROM_LOGS", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
