package configs

import (
	"find-a-house/internal/constants"
	"find-a-house/internal/core/domain"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DBconfig хранит конфигурацию для БД. Пустой URL - хранилище в памяти.
type DBconfig struct {
	URL string
}

// RedisConfig - кэш уже виденных объявлений, пустой URL отключает кэш
type RedisConfig struct {
	URL     string
	SeenTTL time.Duration
	// NotifyChannel - канал pub/sub для совпадений, пустой отключает публикацию
	NotifyChannel string
}

// RabbitMQConfig хранит конфигурацию для RabbitMQ
type RabbitMQConfig struct {
	Enabled bool
	URL     string
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// ScheduleConfig - интервал циклов, ограничения времени и тихие часы
type ScheduleConfig struct {
	IntervalMinutes int
	SourceTimeout   time.Duration
	NotifyInterval  time.Duration
	QuietHours      domain.QuietHours
}

type RESTConfig struct {
	Enabled        bool
	Port           string
	AllowedOrigins []string
}

// SourceConfig - настройки одного сайта
type SourceConfig struct {
	Enabled  bool
	BaseURL  string
	Delay    time.Duration
	MaxPages int
}

type RentIEConfig struct {
	SourceConfig
	IncludeRooms bool
}

// AppConfig хранит всю конфигурацию приложения
type AppConfig struct {
	AppName      string
	Database     DBconfig
	Redis        RedisConfig
	RabbitMQ     RabbitMQConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
	Schedule     ScheduleConfig
	Server       RESTConfig
	ProfilesPath string

	Daft   SourceConfig
	MyHome SourceConfig
	RentIE RentIEConfig

	// Search - общие подсказки для поиска на стороне сайтов
	Search domain.SearchCriteria
}

// LoadConfig загружает конфигурацию из переменных окружения.
// Файл .env необязателен: без него используются переменные процесса.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: Could not load .env file (path: %v): %v. Using process environment.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "find-a-house")
	cfg.Database.URL = os.Getenv("DATABASE_URL")

	cfg.Redis.URL = os.Getenv("REDIS_URL")
	cfg.Redis.SeenTTL = time.Duration(getEnvAsInt("REDIS_SEEN_TTL_HOURS", 24*30)) * time.Hour
	cfg.Redis.NotifyChannel = os.Getenv("REDIS_NOTIFY_CHANNEL")

	cfg.RabbitMQ.Enabled = getEnvAsBool("RABBITMQ_ENABLED", false)
	if cfg.RabbitMQ.Enabled {
		cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
		if cfg.RabbitMQ.URL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL environment variable is required when RABBITMQ_ENABLED is true")
		}
	}

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "info")

	cfg.Schedule.IntervalMinutes = getEnvAsInt("SCHEDULE_INTERVAL_MINUTES", 10)
	if cfg.Schedule.IntervalMinutes <= 0 {
		return nil, fmt.Errorf("SCHEDULE_INTERVAL_MINUTES must be positive, got %d", cfg.Schedule.IntervalMinutes)
	}
	cfg.Schedule.SourceTimeout = time.Duration(getEnvAsInt("SOURCE_TIMEOUT_SECONDS", 120)) * time.Second
	cfg.Schedule.NotifyInterval = time.Duration(getEnvAsInt("NOTIFY_INTERVAL_MS", 500)) * time.Millisecond

	quiet, err := domain.ParseQuietHours(
		getEnvAsBool("QUIET_HOURS_ENABLED", false),
		getEnvAsString("QUIET_HOURS_START", "23:00"),
		getEnvAsString("QUIET_HOURS_END", "07:00"),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid quiet hours: %w", err)
	}
	cfg.Schedule.QuietHours = quiet

	cfg.Server.Enabled = getEnvAsBool("SERVER_ENABLED", true)
	cfg.Server.Port = getEnvAsString("SERVER_PORT", "5151")
	cfg.Server.AllowedOrigins = getEnvAsList("SERVER_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg.ProfilesPath = getEnvAsString("PROFILES_PATH", "profiles.json")

	cfg.Daft = loadSource("DAFT", constants.DaftBaseURL)
	cfg.MyHome = loadSource("MYHOME", constants.MyHomeBaseURL)
	cfg.RentIE = RentIEConfig{
		SourceConfig: loadSource("RENTIE", constants.RentIEFeedURL),
		IncludeRooms: getEnvAsBool("RENTIE_INCLUDE_ROOMS", false),
	}

	cfg.Search = domain.NewSearchCriteria()
	cfg.Search.Areas = getEnvAsList("SEARCH_AREAS", nil)
	cfg.Search.MinPrice = getEnvAsInt("SEARCH_MIN_PRICE", 0)
	cfg.Search.MaxPrice = getEnvAsInt("SEARCH_MAX_PRICE", 0)
	cfg.Search.MinBeds = getEnvAsInt("SEARCH_MIN_BEDS", domain.NoBedroomLimit)
	cfg.Search.MaxBeds = getEnvAsInt("SEARCH_MAX_BEDS", domain.NoBedroomLimit)

	return cfg, nil
}

// loadSource читает {PREFIX}_ENABLED, _BASE_URL, _DELAY_MS и _MAX_PAGES
func loadSource(prefix, defaultURL string) SourceConfig {
	return SourceConfig{
		Enabled:  getEnvAsBool(prefix+"_ENABLED", true),
		BaseURL:  getEnvAsString(prefix+"_BASE_URL", defaultURL),
		Delay:    time.Duration(getEnvAsInt(prefix+"_DELAY_MS", 2000)) * time.Millisecond,
		MaxPages: getEnvAsInt(prefix+"_MAX_PAGES", 3),
	}
}

// getEnvAsString читает переменную окружения как строку или возвращает значение по умолчанию
func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt читает переменную окружения как int или возвращает значение по умолчанию
// Логирует ошибку, если переменная есть, но не может быть преобразована в int
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(valueStr) == "" {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsBool читает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

// getEnvAsList читает список через запятую, пустые элементы отбрасываются
func getEnvAsList(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
