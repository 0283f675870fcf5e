package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// ActorFilterScope selects which reaction triggers carry the actor restriction
type ActorFilterScope string

const (
	ActorFilterScopeBoth    ActorFilterScope = "both"
	ActorFilterScopeAdded   ActorFilterScope = "added"
	ActorFilterScopeRemoved ActorFilterScope = "removed"
)

// SurveyStagePolicy decides what happens to the PROMPT artifacts once a survey is created
type SurveyStagePolicy string

const (
	// SurveyStagePolicyReplace retracts the prompt before the survey record is saved
	SurveyStagePolicyReplace SurveyStagePolicy = "replace"
	// SurveyStagePolicyCoexist keeps the prompt until the reaction is removed
	SurveyStagePolicyCoexist SurveyStagePolicy = "coexist"
)

type SlackConfig struct {
	BotToken        string
	SigningSecret   string
	AlertWebhookURL string
}

// IsConfigured returns true if all required Slack configuration is present
func (c SlackConfig) IsConfigured() bool {
	return c.BotToken != "" &&
		c.SigningSecret != ""
	// Note: AlertWebhookURL is optional
}

type GoogleConfig struct {
	CredentialsFile string
}

// IsConfigured returns true if a service account credentials file is present
func (c GoogleConfig) IsConfigured() bool {
	return c.CredentialsFile != ""
}

type RedisConfig struct {
	URL string
}

// IsConfigured returns true if a Redis URL is present
func (c RedisConfig) IsConfigured() bool {
	return c.URL != ""
}

type SurveyConfig struct {
	AppID               string
	ActorFilterScope    ActorFilterScope
	StagePolicy         SurveyStagePolicy
	MaintenanceInterval time.Duration
}

func (c SurveyConfig) Validate() error {
	switch c.ActorFilterScope {
	case ActorFilterScopeBoth, ActorFilterScopeAdded, ActorFilterScopeRemoved:
	default:
		return fmt.Errorf("invalid ACTOR_FILTER_SCOPE: %q", c.ActorFilterScope)
	}

	switch c.StagePolicy {
	case SurveyStagePolicyReplace, SurveyStagePolicyCoexist:
	default:
		return fmt.Errorf("invalid SURVEY_STAGE_POLICY: %q", c.StagePolicy)
	}

	if c.AppID == "" {
		return fmt.Errorf("APP_ID cannot be empty")
	}

	if c.MaintenanceInterval <= 0 {
		return fmt.Errorf("MAINTENANCE_INTERVAL must be positive")
	}

	return nil
}

type AppConfig struct {
	// Core configuration (always required)
	DatabaseURL        string
	DatabaseSchema     string
	Port               string // Optional with default "8080"
	CORSAllowedOrigins string // Optional with default "*"
	Environment        string
	ServerLogsURL      string
	AdminAPIKey        string // Bearer key for /api/triggers; the endpoint rejects every request when empty
	UseStrictConfig    bool // If true, error when any integration is not fully configured

	SurveyConfig SurveyConfig

	// Integration configurations (grouped)
	SlackConfig  SlackConfig
	GoogleConfig GoogleConfig
	RedisConfig  RedisConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	databaseURL, err := getEnvRequired("DB_URL")
	if err != nil {
		return nil, err
	}

	databaseSchema, err := getEnvRequired("DB_SCHEMA")
	if err != nil {
		return nil, err
	}

	maintenanceInterval, err := time.ParseDuration(getEnvWithDefault("MAINTENANCE_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAINTENANCE_INTERVAL: %w", err)
	}

	config := &AppConfig{
		DatabaseURL:        databaseURL,
		DatabaseSchema:     databaseSchema,
		Port:               getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		ServerLogsURL:      getEnvWithDefault("SERVER_LOGS_URL", ""),
		AdminAPIKey:        os.Getenv("ADMIN_API_KEY"),
		UseStrictConfig:    getEnvWithDefault("USE_STRICT_CONFIG", "true") == "true",

		SurveyConfig: SurveyConfig{
			AppID:               getEnvWithDefault("APP_ID", "simple_survey"),
			ActorFilterScope:    ActorFilterScope(getEnvWithDefault("ACTOR_FILTER_SCOPE", string(ActorFilterScopeBoth))),
			StagePolicy:         SurveyStagePolicy(getEnvWithDefault("SURVEY_STAGE_POLICY", string(SurveyStagePolicyReplace))),
			MaintenanceInterval: maintenanceInterval,
		},

		SlackConfig: SlackConfig{
			BotToken:        os.Getenv("SLACK_BOT_TOKEN"),
			SigningSecret:   os.Getenv("SLACK_SIGNING_SECRET"),
			AlertWebhookURL: os.Getenv("SLACK_ALERT_WEBHOOK_URL"),
		},

		GoogleConfig: GoogleConfig{
			CredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
		},

		RedisConfig: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
	}

	if err := config.SurveyConfig.Validate(); err != nil {
		return nil, err
	}

	// Log which integrations are configured
	if config.SlackConfig.IsConfigured() {
		log.Printf("✅ Slack integration configured")
	} else {
		log.Printf("⚠️ Slack integration not configured - Slack features will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("slack integration is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.GoogleConfig.IsConfigured() {
		log.Printf("✅ Google Sheets integration configured")
	} else {
		log.Printf("⚠️ Google Sheets integration not configured - survey creation will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("google sheets integration is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.AdminAPIKey == "" {
		log.Printf("⚠️ ADMIN_API_KEY not set - /api/triggers is disabled, use cmd/reconcile --list")
	}

	if config.RedisConfig.IsConfigured() {
		log.Printf("✅ Redis event de-duplication configured")
	} else {
		log.Printf("⚠️ Redis not configured - Slack event retries will not be de-duplicated")
	}

	return config, nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
