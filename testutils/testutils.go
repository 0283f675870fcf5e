package testutils

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"simplesurvey/config"
	"simplesurvey/core"
	"simplesurvey/db"
)

// LoadTestConfig loads the database settings for tests from environment variables
func LoadTestConfig() (*config.AppConfig, error) {
	// Try to load environment variables from various possible locations
	_ = godotenv.Load("../../.env.test") // From services/<name>/ directory
	_ = godotenv.Load("../.env.test")    // From db/ directory
	_ = godotenv.Load(".env.test")       // From root directory

	databaseURL := os.Getenv("DB_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DB_URL is not set")
	}

	databaseSchema := os.Getenv("DB_SCHEMA")
	if databaseSchema == "" {
		databaseSchema = "simple_survey_test"
	}

	return &config.AppConfig{
		DatabaseURL:    databaseURL,
		DatabaseSchema: databaseSchema,
	}, nil
}

// SetupTestDB connects to the test database and applies the schema.
// The test is skipped when no database is configured.
func SetupTestDB(t *testing.T) (*sqlx.DB, string) {
	t.Helper()

	cfg, err := LoadTestConfig()
	if err != nil {
		t.Skipf("skipping database test: %v", err)
	}

	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	require.NoError(t, err, "Failed to connect to test database")

	err = db.Migrate(context.Background(), dbConn, cfg.DatabaseSchema)
	require.NoError(t, err, "Failed to migrate test database")

	t.Cleanup(func() {
		dbConn.Close()
	})

	return dbConn, cfg.DatabaseSchema
}

func randomSuffix() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:10])
}

// GenerateSlackChannelID returns a unique channel id shaped like Slack's
func GenerateSlackChannelID() string {
	return "C" + randomSuffix()
}

// GenerateSlackUserID returns a unique user id shaped like Slack's
func GenerateSlackUserID() string {
	return "U" + randomSuffix()
}

// GenerateSlackTS returns a unique message timestamp
func GenerateSlackTS() string {
	id := uuid.New()
	return fmt.Sprintf("1700%06d.%06d", int(id[0])<<8|int(id[1]), int(id[2])<<8|int(id[3]))
}

// GenerateTriggerID returns a registry trigger id
func GenerateTriggerID() string {
	return core.NewID("ft")
}

// GenerateSurveyThreadID returns a survey thread record id
func GenerateSurveyThreadID() string {
	return core.NewID("st")
}

// GenerateAppID returns a unique trigger owner so tests sharing a schema do not see each other's triggers
func GenerateAppID() string {
	return "simple_survey_test_" + strings.ToLower(randomSuffix())
}
