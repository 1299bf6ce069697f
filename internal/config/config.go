package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"bilan/internal/core"
)

type Config struct {
	// HTTP Server
	Port string

	// Session storage
	SessionBackend string
	SessionTTL     time.Duration
	SessionLimit   int

	// Database (sqlite session backend + analysis archive)
	SQLiteDBPath string

	// AMQP (summary export pipeline, optional)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets (summary archive target)
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Worker
	ExportBatchSize int
	ExportInterval  time.Duration

	// Analysis policy overrides
	SalaryCategory       string
	RefTheoreticalSalary string
	ExcludeParents       string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		SessionBackend: getEnv("SESSION_BACKEND", "memory"),
		SessionTTL:     getEnvDuration("SESSION_TTL", 2*time.Hour),
		SessionLimit:   getEnvInt("SESSION_LIMIT", 100),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/bilan.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "bilan"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "export_summaries"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", ""),

		ExportBatchSize: getEnvInt("EXPORT_BATCH_SIZE", 10),
		ExportInterval:  getEnvDuration("EXPORT_INTERVAL", 30*time.Second),

		SalaryCategory:       getEnv("SALARY_CATEGORY", ""),
		RefTheoreticalSalary: getEnv("REF_THEORETICAL_SALARY", ""),
		ExcludeParents:       getEnv("EXCLUDE_PARENTS", ""),
	}

	return cfg
}

// Policy builds the budget policy, applying any environment overrides on top
// of the defaults.
func (c *Config) Policy() (core.BudgetPolicy, error) {
	policy := core.DefaultPolicy()

	if c.SalaryCategory != "" {
		policy.SalaryCategory = c.SalaryCategory
	}
	if c.RefTheoreticalSalary != "" {
		cents, err := core.ParseSignedDecimalToCents(c.RefTheoreticalSalary)
		if err != nil {
			return core.BudgetPolicy{}, fmt.Errorf("invalid REF_THEORETICAL_SALARY %q: %w", c.RefTheoreticalSalary, err)
		}
		policy.RefTheoreticalSalary = core.Money{Cents: cents}
	}
	if c.ExcludeParents != "" {
		var parents []string
		for _, p := range strings.Split(c.ExcludeParents, ";") {
			if p = strings.TrimSpace(p); p != "" {
				parents = append(parents, p)
			}
		}
		policy.ExcludeParents = core.ExcludeParentSet(parents...)
	}
	return policy, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate session backend
	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.SessionBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid session backend '%s': must be one of %v", c.SessionBackend, validBackends))
	}

	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	}
	if c.SessionLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid session limit %d: must be at least 1", c.SessionLimit))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.SessionBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}

		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate policy overrides
	if c.RefTheoreticalSalary != "" {
		if _, err := core.ParseSignedDecimalToCents(c.RefTheoreticalSalary); err != nil {
			errors = append(errors, fmt.Sprintf("invalid reference salary '%s': must be a decimal amount", c.RefTheoreticalSalary))
		}
	}

	// Validate worker configuration
	if c.ExportBatchSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid export batch size %d: must be at least 1", c.ExportBatchSize))
	} else if c.ExportBatchSize > 1000 {
		errors = append(errors, fmt.Sprintf("invalid export batch size %d: must be at most 1000", c.ExportBatchSize))
	}

	if c.ExportInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid export interval %v: must be at least 1 second", c.ExportInterval))
	} else if c.ExportInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid export interval %v: must be at most 24 hours", c.ExportInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
