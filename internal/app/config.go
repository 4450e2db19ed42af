package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"sheets_bridge/internal/config"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Value input modes understood by the backend
const (
	ValueInputUserEntered = "USER_ENTERED"
	ValueInputRaw         = "RAW"
)

// Config holds application configuration
type Config struct {
	SpreadsheetID   string
	CredentialsFile string
	ApplicationName string
	ValueInput      string
	Runner          config.RunnerConfig
}

// SetupEnvironment loads .env file and configures zerolog output and log level.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	// Configure logging
	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	switch levelStr {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "":
		if os.Getenv("ENV") == "production" {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	spreadsheetID := os.Getenv("SPREADSHEET_ID")
	if spreadsheetID == "" {
		return nil, fmt.Errorf("SPREADSHEET_ID environment variable is required")
	}

	credentialsFile := os.Getenv("GOOGLE_CREDENTIALS_FILE")
	if credentialsFile == "" {
		credentialsFile = "credentials.json"
	}

	appName := os.Getenv("SHEETS_APP_NAME")
	if appName == "" {
		appName = config.DefaultApplicationName
	}

	valueInput := strings.ToUpper(os.Getenv("SHEETS_VALUE_INPUT"))
	switch valueInput {
	case "":
		valueInput = ValueInputUserEntered
	case ValueInputUserEntered, ValueInputRaw:
	default:
		return nil, fmt.Errorf("SHEETS_VALUE_INPUT must be %s or %s, got %q", ValueInputUserEntered, ValueInputRaw, valueInput)
	}

	runnerConfig := config.DefaultRunnerConfig
	if v := os.Getenv("SHEETS_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("SHEETS_WORKERS must be a positive integer, got %q", v)
		}
		runnerConfig.Workers = n
	}
	if v := os.Getenv("SHEETS_QUEUE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("SHEETS_QUEUE must be a positive integer, got %q", v)
		}
		runnerConfig.QueueCapacity = n
	}

	return &Config{
		SpreadsheetID:   spreadsheetID,
		CredentialsFile: credentialsFile,
		ApplicationName: appName,
		ValueInput:      valueInput,
		Runner:          runnerConfig,
	}, nil
}

// GetRequiredEnv gets an environment variable or exits if not found
func GetRequiredEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatal().Str("key", key).Msg("Required environment variable not set")
	}
	return value
}
