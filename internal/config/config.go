package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/vfg2006/cirod-kpi-engine/internal/domain"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
	StoreDriverDynamoDB = "dynamodb"
)

type Config struct {
	App           App                  `mapstructure:",squash"`
	Server        Server               `mapstructure:",squash"`
	Store         Store                `mapstructure:",squash"`
	Database      Database             `mapstructure:",squash"`
	DynamoDB      DynamoDB             `mapstructure:",squash"`
	KPI           KPI                  `mapstructure:",squash"`
	Health        Health               `mapstructure:",squash"`
	KPIRecalcSync KPIRecalcSync        `mapstructure:",squash"`
	HealthSync    HealthSync           `mapstructure:",squash"`
	BusinessUnits domain.BusinessUnits `mapstructure:"-"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`

	SlowRequestThreshold time.Duration `mapstructure:"http_slow_request_threshold"`
}

type App struct {
	LogLevel          string `mapstructure:"log_level"`
	BusinessUnitsFile string `mapstructure:"business_units_file"`
}

type Store struct {
	Driver               string        `mapstructure:"store_driver"`
	RetryInitialInterval time.Duration `mapstructure:"store_retry_initial_interval"`
	RetryMaxInterval     time.Duration `mapstructure:"store_retry_max_interval"`
	RetryMaxElapsedTime  time.Duration `mapstructure:"store_retry_max_elapsed"`
}

type Database struct {
	DSN          string `mapstructure:"-"`
	Driver       string `mapstructure:"database_driver"`
	Password     string `mapstructure:"database_password"`
	URL          string `mapstructure:"database_url"`
	User         string `mapstructure:"database_user"`
	MaxOpenConns int    `mapstructure:"database_max_open_conns"`

	ConnectTimeout time.Duration `mapstructure:"database_connect_timeout"`
}

type DynamoDB struct {
	Region        string `mapstructure:"dynamodb_region"`
	Profile       string `mapstructure:"dynamodb_profile"`
	Endpoint      string `mapstructure:"dynamodb_endpoint"`
	DentistsTable string `mapstructure:"dynamodb_table_dentists"`
	RequestsTable string `mapstructure:"dynamodb_table_requests"`
	SettingsTable string `mapstructure:"dynamodb_table_settings"`
}

type KPI struct {
	DedupTTL           time.Duration `mapstructure:"kpi_dedup_ttl"`
	DedupSweepInterval time.Duration `mapstructure:"kpi_dedup_sweep_interval"`
	DentistCacheTTL    time.Duration `mapstructure:"kpi_dentist_cache_ttl"`
}

type Health struct {
	MaxConcurrentQueries int `mapstructure:"health_max_concurrent_queries"`
}

type KPIRecalcSync struct {
	CronSchedule string `mapstructure:"kpi_recalc_sync_cron"`
	Enabled      bool   `mapstructure:"kpi_recalc_sync_enabled"`
	RunOnStart   bool   `mapstructure:"kpi_recalc_sync_run_on_start"`
}

type HealthSync struct {
	CronSchedule string `mapstructure:"health_sync_cron"`
	Enabled      bool   `mapstructure:"health_sync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:4001")
	viper.SetDefault("HTTP_SLOW_REQUEST_THRESHOLD", "500ms")

	viper.SetDefault("STORE_DRIVER", StoreDriverMemory)
	viper.SetDefault("STORE_RETRY_INITIAL_INTERVAL", "500ms")
	viper.SetDefault("STORE_RETRY_MAX_INTERVAL", "5s")
	viper.SetDefault("STORE_RETRY_MAX_ELAPSED", "30s")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/cirod?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DATABASE_CONNECT_TIMEOUT", "30s")

	viper.SetDefault("DYNAMODB_REGION", "sa-east-1")
	viper.SetDefault("DYNAMODB_PROFILE", "")
	viper.SetDefault("DYNAMODB_ENDPOINT", "")
	viper.SetDefault("DYNAMODB_TABLE_DENTISTS", "cirod_dentists")
	viper.SetDefault("DYNAMODB_TABLE_REQUESTS", "cirod_requests")
	viper.SetDefault("DYNAMODB_TABLE_SETTINGS", "cirod_settings")

	viper.SetDefault("BUSINESS_UNITS_FILE", "")

	viper.SetDefault("KPI_DEDUP_TTL", "10m")           // Janela de deduplicação por sessão
	viper.SetDefault("KPI_DEDUP_SWEEP_INTERVAL", "1m") // Limpeza periódica de entradas expiradas
	viper.SetDefault("KPI_DENTIST_CACHE_TTL", "10m")

	viper.SetDefault("HEALTH_MAX_CONCURRENT_QUERIES", 10)

	viper.SetDefault("KPI_RECALC_SYNC_CRON", "0 3 * * *") // Todos os dias às 3h da manhã
	viper.SetDefault("KPI_RECALC_SYNC_ENABLED", false)
	viper.SetDefault("KPI_RECALC_SYNC_RUN_ON_START", true) // Recalcula na subida se ainda não rodou hoje

	viper.SetDefault("HEALTH_SYNC_CRON", "30 3 * * *") // Todos os dias às 3h30 da manhã
	viper.SetDefault("HEALTH_SYNC_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	units, err := LoadBusinessUnits(config.App.BusinessUnitsFile)
	if err != nil {
		return nil, err
	}
	config.BusinessUnits = units

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
