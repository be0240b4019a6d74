package config

import (
	"log"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port            string `mapstructure:"port"`
		Env             string `mapstructure:"env"`
		DefaultPageSize int    `mapstructure:"default_page_size"`
		MaxPageSize     int    `mapstructure:"max_page_size"`
	} `mapstructure:"app"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
	} `mapstructure:"kafka"`
}

func LoadConfig(path string) (cfg Config, err error) {

	err = godotenv.Load(filepath.Join(path, ".env"))
	if err != nil {
		log.Println("warning: .env file not found, use environment only.")
	}

	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if err = viper.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read env only. Error: %v", err)
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.default_page_size", 25)
	viper.SetDefault("app.max_page_size", 100)

	viper.BindEnv("app.port", "APP_PORT")
	viper.BindEnv("app.env", "APP_ENV")
	viper.BindEnv("app.default_page_size", "APP_DEFAULT_PAGE_SIZE")
	viper.BindEnv("app.max_page_size", "APP_MAX_PAGE_SIZE")
	viper.BindEnv("db.dsn", "DB_DSN")
	viper.BindEnv("redis.addr", "REDIS_ADDR")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("kafka.brokers", "KAFKA_BROKERS")

	err = viper.Unmarshal(&cfg)
	return
}
