package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverBunt     = "bunt"
)

type Config struct {
	TelegramBotToken    string `env:"TELEGRAM_BOT_TOKEN,required"`
	TelegramPollTimeout int    `env:"TELEGRAM_POLL_TIMEOUT,default=60"`

	StoreDriver string `env:"STORE_DRIVER,default=postgres"`

	DBHost            string        `env:"DB_HOST,default=localhost"`
	DBPort            int           `env:"DB_PORT,default=5432"`
	DBUser            string        `env:"DB_USER,default=coinwatch"`
	DBPassword        string        `env:"DB_PASSWORD"`
	DBName            string        `env:"DB_NAME,default=coinwatch"`
	DBSSLMode         string        `env:"DB_SSLMODE,default=disable"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=25"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=30m"`

	MongoURI      string        `env:"MONGO_URI,default=mongodb://localhost:27017"`
	MongoDatabase string        `env:"MONGO_DATABASE,default=coinwatch"`
	MongoTimeout  time.Duration `env:"MONGO_TIMEOUT,default=10s"`

	BuntPath string `env:"BUNT_PATH,default=:memory:"`

	CoinGeckoBaseURL string        `env:"COINGECKO_BASE_URL,default=https://api.coingecko.com/api/v3"`
	CoinGeckoAPIKey  string        `env:"COINGECKO_API_KEY"`
	CoinGeckoTimeout time.Duration `env:"COINGECKO_TIMEOUT,default=10s"`

	EtherscanBaseURL string        `env:"ETHERSCAN_BASE_URL,default=https://api.etherscan.io"`
	EtherscanAPIKey  string        `env:"ETHERSCAN_API_KEY"`
	HeliusBaseURL    string        `env:"HELIUS_BASE_URL,default=https://api.helius.xyz"`
	HeliusAPIKey     string        `env:"HELIUS_API_KEY"`
	HoldersTimeout   time.Duration `env:"HOLDERS_TIMEOUT,default=8s"`

	AlertInterval     time.Duration `env:"ALERT_INTERVAL,default=60s"`
	AlertVsCurrency   string        `env:"ALERT_VS_CURRENCY,default=usd"`
	AlertFetchTimeout time.Duration `env:"ALERT_FETCH_TIMEOUT,default=15s"`
	AlertWriteTimeout time.Duration `env:"ALERT_WRITE_TIMEOUT,default=5s"`
	AlertConcurrency  int           `env:"ALERT_CONCURRENCY,default=8"`

	HTTPPort  string `env:"PORT,default=3000"`
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=json"`
}

func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
