package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"imospy/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	Database       Database       `json:"database"`
	App            App            `json:"app"`
	ScrapeCreators ScrapeCreators `json:"scrapeCreators"`
	Scrape         Scrape         `json:"scrape"`
	Ads            Ads            `json:"ads"`
	Pubsub         Pubsub         `json:"pubsub"`
	ServiceBus     ServiceBus     `json:"serviceBus"`
	RedisClient    RedisClient    `json:"redisClient"`
	Logger         Logger         `json:"logger"`
}

type App struct {
	Port           int      `json:"port"`
	SecretKey      string   `json:"secretKey"`
	TLSEnabled     bool     `json:"tlsEnabled"`
	TLSCertFile    string   `json:"tlsCertFile"`
	TLSKeyFile     string   `json:"tlsKeyFile"`
	AllowedOrigins []string `json:"allowedOrigins"`
}

type Database struct {
	Psql  Db `json:"psql"`
	Mongo Db `json:"mongo"`
	Mssql Db `json:"mssql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
}

// ScrapeCreators configures the scraping provider client and the LinkedIn
// enrichment that runs on top of it.
type ScrapeCreators struct {
	APIKey            string  `json:"apiKey"`
	BaseURL           string  `json:"baseUrl"`
	TimeoutSeconds    int     `json:"timeoutSeconds"`
	MaxAdPages        int     `json:"maxAdPages"`
	EnrichConcurrency int     `json:"enrichConcurrency"`
	LikeEstimator     string  `json:"likeEstimator"`
	Breaker           Breaker `json:"breaker"`
}

type Breaker struct {
	FailureThreshold int `json:"failureThreshold"`
	Window           int `json:"window"`
	DelaySeconds     int `json:"delaySeconds"`
}

type Scrape struct {
	// Schedule is a cron spec with seconds; empty disables scheduled scrapes.
	Schedule       string `json:"schedule"`
	LockTTLSeconds int    `json:"lockTTLSeconds"`
	ContentLimit   int    `json:"contentLimit"`
}

type Ads struct {
	DetailConcurrency     int `json:"detailConcurrency"`
	DetailCacheTTLSeconds int `json:"detailCacheTTLSeconds"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	Topic     string `json:"topic"`
}

type ServiceBus struct {
	Namespace string `json:"namespace"`
	Queue     string `json:"queue"`
}

type RedisClient struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Password     string `json:"password"`
	DatabaseName string `json:"databaseName"`
	Username     string `json:"username"`
}

type Logger struct {
	Format string `json:"format"`
}

var C Config

func init() {
	Reload()
}

// Reload rebuilds C from the config file and the current environment.
func Reload() {
	C = Config{}
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initScrapeCreators(&C)
	initMessaging(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

// getEnv returns the first non-empty environment variable among keys.
func getEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getConfigValue(current, fallback string) string {
	if current != "" {
		return current
	}
	return fallback
}

func getEnvInt(key string, current int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return current
}

func initDatabase(C *Config) {
	C.Database.Psql.Name = getConfigValue(C.Database.Psql.Name, os.Getenv("DB_NAME"))
	C.Database.Psql.Host = getConfigValue(C.Database.Psql.Host, os.Getenv("DB_HOST"))
	C.Database.Psql.User = getConfigValue(C.Database.Psql.User, os.Getenv("DB_USER"))
	C.Database.Psql.Password = getConfigValue(C.Database.Psql.Password, os.Getenv("DB_PASSWORD"))
	C.Database.Psql.Port = getConfigValue(C.Database.Psql.Port, getConfigValue(os.Getenv("DB_PORT"), "5432"))
	C.Database.Psql.SSLMode = getConfigValue(C.Database.Psql.SSLMode, getConfigValue(os.Getenv("DB_SSLMODE"), "disable"))

	C.Database.Mssql.Name = getConfigValue(C.Database.Mssql.Name, os.Getenv("MSSQL_DB_NAME"))
	C.Database.Mssql.Host = getConfigValue(C.Database.Mssql.Host, getConfigValue(os.Getenv("MSSQL_HOST"), "localhost"))
	C.Database.Mssql.Port = getConfigValue(C.Database.Mssql.Port, getConfigValue(os.Getenv("MSSQL_PORT"), "1433"))
	C.Database.Mssql.User = getConfigValue(C.Database.Mssql.User, getConfigValue(os.Getenv("MSSQL_USER"), "sa"))
	C.Database.Mssql.Password = getConfigValue(C.Database.Mssql.Password, os.Getenv("MSSQL_PASSWORD"))

	C.Database.Mongo.Host = getConfigValue(C.Database.Mongo.Host, os.Getenv("MONGO_HOST"))
	C.Database.Mongo.Port = getConfigValue(C.Database.Mongo.Port, getConfigValue(os.Getenv("MONGO_PORT"), "27017"))
	C.Database.Mongo.User = getConfigValue(C.Database.Mongo.User, os.Getenv("MONGO_USER"))
	C.Database.Mongo.Password = getConfigValue(C.Database.Mongo.Password, os.Getenv("MONGO_PASSWORD"))
	C.Database.Mongo.Name = getConfigValue(C.Database.Mongo.Name, getConfigValue(os.Getenv("MONGO_DB_NAME"), "imospy"))

	C.RedisClient.Host = getConfigValue(C.RedisClient.Host, os.Getenv("REDIS_HOST"))
	C.RedisClient.Port = getConfigValue(C.RedisClient.Port, getConfigValue(os.Getenv("REDIS_PORT"), "6379"))
	C.RedisClient.Username = getConfigValue(C.RedisClient.Username, os.Getenv("REDIS_USERNAME"))
	C.RedisClient.Password = getConfigValue(C.RedisClient.Password, os.Getenv("REDIS_PASSWORD"))
}

func initApp(C *Config) {
	// SECRET_KEY overrides the config file so secrets stay out of it.
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// Port resolution order: APP_PORT -> PORT -> config -> 10001
	if v := getEnv("APP_PORT", "PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			C.App.TLSEnabled = b
		}
	}
	C.App.TLSCertFile = getConfigValue(C.App.TLSCertFile, os.Getenv("TLS_CERT_FILE"))
	C.App.TLSKeyFile = getConfigValue(C.App.TLSKeyFile, os.Getenv("TLS_KEY_FILE"))
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		C.App.AllowedOrigins = splitList(v)
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; JWT authentication will fail. Provide SECRET_KEY via environment.")
	}
}

func initScrapeCreators(C *Config) {
	sc := &C.ScrapeCreators
	if v := os.Getenv("SCRAPECREATORS_API_KEY"); v != "" {
		sc.APIKey = v
	}
	if v := os.Getenv("SCRAPECREATORS_BASE_URL"); v != "" {
		sc.BaseURL = v
	}
	sc.BaseURL = getConfigValue(sc.BaseURL, "https://api.scrapecreators.com")
	sc.TimeoutSeconds = defaultInt(getEnvInt("SCRAPECREATORS_TIMEOUT_SECONDS", sc.TimeoutSeconds), 60)
	sc.MaxAdPages = defaultInt(sc.MaxAdPages, 10)
	sc.EnrichConcurrency = defaultInt(sc.EnrichConcurrency, 5)
	sc.LikeEstimator = getConfigValue(getConfigValue(os.Getenv("LIKE_ESTIMATOR"), sc.LikeEstimator), "ratio")
	sc.Breaker.FailureThreshold = defaultInt(sc.Breaker.FailureThreshold, 5)
	sc.Breaker.Window = defaultInt(sc.Breaker.Window, 10)
	sc.Breaker.DelaySeconds = defaultInt(sc.Breaker.DelaySeconds, 30)

	if v, ok := os.LookupEnv("SCRAPE_SCHEDULE"); ok {
		C.Scrape.Schedule = v
	}
	C.Scrape.LockTTLSeconds = defaultInt(C.Scrape.LockTTLSeconds, 300)
	C.Scrape.ContentLimit = defaultInt(C.Scrape.ContentLimit, 50)

	C.Ads.DetailConcurrency = defaultInt(C.Ads.DetailConcurrency, 10)
	C.Ads.DetailCacheTTLSeconds = defaultInt(C.Ads.DetailCacheTTLSeconds, 3600)

	if sc.APIKey == "" {
		logger.GetLogger().Warn("ScrapeCreators API key not set; scraping and ad analysis will fail. Provide SCRAPECREATORS_API_KEY via environment.")
	}
}

func initMessaging(C *Config) {
	C.Pubsub.ProjectID = getConfigValue(C.Pubsub.ProjectID, os.Getenv("PUBSUB_PROJECT_ID"))
	C.Pubsub.Topic = getConfigValue(C.Pubsub.Topic, getConfigValue(os.Getenv("PUBSUB_TOPIC"), "imospy-events"))
	C.ServiceBus.Namespace = getConfigValue(C.ServiceBus.Namespace, os.Getenv("SERVICEBUS_NAMESPACE"))
	C.ServiceBus.Queue = getConfigValue(C.ServiceBus.Queue, getConfigValue(os.Getenv("SERVICEBUS_QUEUE"), "imospy-events"))
}

func defaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Seconds converts a configured number of seconds to a duration.
func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
