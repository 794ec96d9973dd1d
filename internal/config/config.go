package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultSourcePath      = "/data/rich-menu/banking_rich_menu_booking.png"
	DefaultDestinationPath = "/data/rich-menu/banking_rich_menu_1040.png"
	DefaultTargetWidth     = 1040
	DefaultTargetHeight    = 1040
)

type Config struct {
	Resize   ResizeConfig
	Server   ServerConfig
	Supabase SupabaseConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Cache    CacheConfig
}

// ResizeConfig is the single source/destination pair and the size every
// output is forced to.
type ResizeConfig struct {
	SourcePath      string
	DestinationPath string
	TargetWidth     int
	TargetHeight    int
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type SupabaseConfig struct {
	URL    string
	KEY    string
	BUCKET string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	URL   string
	Queue string
}

type CacheConfig struct {
	Duration time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{
		Resize: ResizeConfig{
			SourcePath:      getEnv("SOURCE_PATH", DefaultSourcePath),
			DestinationPath: getEnv("DESTINATION_PATH", DefaultDestinationPath),
			TargetWidth:     getEnvAsInt("TARGET_WIDTH", DefaultTargetWidth),
			TargetHeight:    getEnvAsInt("TARGET_HEIGHT", DefaultTargetHeight),
		},
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDuration("READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("WRITE_TIMEOUT", 30*time.Second),
		},
		Supabase: SupabaseConfig{
			URL:    getEnv("SUPABASE_URL", ""),
			KEY:    getEnv("SUPABASE_KEY", ""),
			BUCKET: getEnv("SUPABASE_BUCKET", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		RabbitMQ: RabbitMQConfig{
			URL:   getEnv("RABBITMQ_URL", ""),
			Queue: getEnv("RABBITMQ_QUEUE", "image_resize"),
		},
		Cache: CacheConfig{
			Duration: getDuration("CACHE_DURATION", 24*time.Hour),
		},
	}

	return cfg, nil
}

// Validate reports the first problem that would keep a resize from running.
func (c ResizeConfig) Validate() error {
	if c.SourcePath == "" {
		return fmt.Errorf("source path is required")
	}
	if c.DestinationPath == "" {
		return fmt.Errorf("destination path is required")
	}
	if c.TargetWidth <= 0 || c.TargetHeight <= 0 {
		return fmt.Errorf("target size %dx%d must be positive", c.TargetWidth, c.TargetHeight)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}
