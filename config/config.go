package config

import (
	"log"
	"os"

	"github.com/spf13/viper"
)

// Astrologer describes one consultable astrologer persona.
type Astrologer struct {
	ID         string `mapstructure:"id" json:"id"`
	Name       string `mapstructure:"name" json:"name"`
	Image      string `mapstructure:"image" json:"image"`
	Experience string `mapstructure:"experience" json:"experience"`
	Expertise  string `mapstructure:"expertise" json:"expertise"`
	Persona    string `mapstructure:"persona" json:"persona"` // Maps to a response persona (vedic, relationship, ...)
}

// Category groups astrologers by consultation topic (Love, Marriage, ...).
type Category struct {
	ID          int           `mapstructure:"id" json:"id"`
	Title       string        `mapstructure:"title" json:"title"`
	Description string        `mapstructure:"description" json:"description"`
	Astrologers []*Astrologer `mapstructure:"astrologers" json:"astrologers"`
}

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string
	}
	Database struct {
		DSN string // "memory" or a SQLite file path
	}
	FreeQuestionLimit int         `mapstructure:"free_question_limit" json:"free_question_limit"`
	ReplyDelayMinSecs int         `mapstructure:"reply_delay_min_secs" json:"reply_delay_min_secs"`
	ReplyDelayMaxSecs int         `mapstructure:"reply_delay_max_secs" json:"reply_delay_max_secs"`
	Categories        []*Category `mapstructure:"categories" json:"categories"`
}

// AppConfig is the global configuration instance.
var AppConfig Config

// LoadConfig loads configuration from file and environment variables.
// A missing config.yaml is not an error: defaults (including the built-in
// astrologer catalog) keep the service fully functional.
func LoadConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../config") // For running from locations like tests

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("database.dsn", "memory")
	viper.SetDefault("free_question_limit", 5)
	viper.SetDefault("reply_delay_min_secs", 2)
	viper.SetDefault("reply_delay_max_secs", 3)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("WARN: [Config] Configuration file (config.yaml) not found. Using environment variables and defaults.")
		} else {
			log.Fatalf("FATAL: [Config] Error reading configuration file: %v", err)
		}
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("FATAL: [Config] Failed to unmarshal configuration into AppConfig struct: %v", err)
	}

	// Environment variable overrides
	if port := os.Getenv("SERVER_PORT"); port != "" {
		AppConfig.Server.Port = port
		log.Printf("INFO: [Config] Server port overridden by environment variable SERVER_PORT: %s", port)
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		AppConfig.Database.DSN = dsn
		log.Printf("INFO: [Config] Database DSN overridden by environment variable DATABASE_DSN: %s", dsn)
	}

	// Guard against unusable values from a hand-edited config file.
	if AppConfig.FreeQuestionLimit <= 0 {
		log.Printf("WARN: [Config] free_question_limit %d is not positive, falling back to 5.", AppConfig.FreeQuestionLimit)
		AppConfig.FreeQuestionLimit = 5
	}
	if AppConfig.ReplyDelayMinSecs <= 0 {
		AppConfig.ReplyDelayMinSecs = 2
	}
	if AppConfig.ReplyDelayMaxSecs < AppConfig.ReplyDelayMinSecs {
		log.Printf("WARN: [Config] reply_delay_max_secs %d is below the minimum delay, clamping to %d.",
			AppConfig.ReplyDelayMaxSecs, AppConfig.ReplyDelayMinSecs)
		AppConfig.ReplyDelayMaxSecs = AppConfig.ReplyDelayMinSecs
	}

	// The astrologer catalog ships with the binary; config.yaml may override it
	// but an empty or missing "categories" section falls back to the built-in data.
	if len(AppConfig.Categories) == 0 {
		log.Println("INFO: [Config] No categories configured, loading built-in astrologer catalog.")
		AppConfig.Categories = DefaultCatalog()
	}

	log.Printf("INFO: [Config] Configuration loading complete: %d categories, free question limit %d.",
		len(AppConfig.Categories), AppConfig.FreeQuestionLimit)
}

// FindAstrologer looks up an astrologer by ID across all categories.
// Returns the astrologer and its category, or nils when unknown.
func FindAstrologer(id string) (*Astrologer, *Category) {
	for _, cat := range AppConfig.Categories {
		for _, a := range cat.Astrologers {
			if a.ID == id {
				return a, cat
			}
		}
	}
	return nil, nil
}

// FindCategory looks up a category by its numeric ID.
func FindCategory(id int) *Category {
	for _, cat := range AppConfig.Categories {
		if cat.ID == id {
			return cat
		}
	}
	return nil
}
