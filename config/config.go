package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel           string `env:"LOG_LEVEL"`
	Postgres           Postgres
	Telegram           Telegram
	Redis              Redis
	HTTP               HTTP
	API                API
	Cache              Cache
	Jobs               Jobs
	GoogleDrive        GoogleDrive
	SessionExpiration  time.Duration `env:"SESSION_EXPIRATION"`
	RecentSymbolsLimit int           `env:"RECENT_SYMBOLS_LIMIT" envDefault:"10"`
}

type Postgres struct {
	Host            string `env:"PG_HOST"`
	Port            int    `env:"PG_PORT"`
	DbName          string `env:"PG_DB_NAME"`
	Password        string `env:"PG_PASSWORD"`
	User            string `env:"PG_USER"`
	MaxOpenConns    int    `env:"PG_MAX_OPEN_CONNS"`
	ConnMaxLifetime int    `env:"PG_CONN_MAX_LIFETIME"`
	MaxIdleConns    int    `env:"PG_MAX_IDLE_CONNS"`
	ConnMaxIdleTime int    `env:"PG_CONN_MAX_IDLE_TIME"`
	MigrationDir    string `env:"PG_MIGRATION_DIR" envDefault:"data/migrations"`
}

type Telegram struct {
	Token            string        `env:"TELEGRAM_TOKEN"`
	UpdTimeout       time.Duration `env:"TELEGRAM_UPD_TIMEOUT"`
	FileLimitInBytes int           `env:"TELEGRAM_FILE_LIMIT_IN_BYTES"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST"`
	Port     int    `env:"REDIS_PORT"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type HTTP struct {
	Addr         string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
}

type API struct {
	Debug           bool          `env:"API_DEBUG" envDefault:"false"`
	Timeout         time.Duration `env:"API_TIMEOUT"`
	RetryMaxElapsed time.Duration `env:"API_RETRY_MAX_ELAPSED" envDefault:"10s"`
	StockApi        StockApi
	CoinGeckoApi    CoinGeckoApi
	ExchangeRateApi ExchangeRateApi
}

type StockApi struct {
	Url string `env:"STOCK_API_URL"`
}

type CoinGeckoApi struct {
	Url               string  `env:"COINGECKO_API_URL" envDefault:"https://api.coingecko.com/api/v3"`
	RequestsPerSecond float64 `env:"COINGECKO_RPS" envDefault:"0.5"`
}

type ExchangeRateApi struct {
	Url    string `env:"EXCHANGERATE_API_URL" envDefault:"https://v6.exchangerate-api.com"`
	ApiKey string `env:"EXCHANGERATE_API_KEY"`
}

type Cache struct {
	PopularStocksExpiration time.Duration `env:"CACHE_POPULAR_STOCKS_EXPIRATION"`
	CryptoMarketsExpiration time.Duration `env:"CACHE_CRYPTO_MARKETS_EXPIRATION"`
	RatesExpiration         time.Duration `env:"CACHE_RATES_EXPIRATION"`
}

type Jobs struct {
	FillPopularStocksCacheInterval time.Duration `env:"FILL_POPULAR_STOCKS_CACHE_JOB_INTERVAL"`
	DeleteOldReportsInterval       time.Duration `env:"DELETE_OLD_REPORTS_JOB_INTERVAL" envDefault:"1h"`
}

type GoogleDrive struct {
	CredentialsFile string        `env:"GOOGLE_DRIVE_CREDENTIALS_FILE"`
	FileTTL         time.Duration `env:"GOOGLE_DRIVE_FILE_TTL" envDefault:"24h"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg, err := Load()
	if err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}

func Load() (*Config, error) {
	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, err
	}

	return cfg, nil
}
