package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultDepartments is used when the DEPARTMENTS variable is unset.
var DefaultDepartments = []string{
	"Administration", "HR & GA", "Finance", "Production",
	"Quality Control", "Warehouse", "Engineering", "Procurement",
}

type Config struct {
	// HTTP Server
	Port string

	// Ledger backend selection
	LedgerBackend string

	// CSV ledger
	CSVLedgerPath string

	// SQLite ledger
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Item catalog
	CatalogSource    string
	CatalogPath      string
	CatalogSheetName string

	// Record builder
	Departments      []string
	AllowManualEntry bool

	// Google Sheets mirror (worker)
	GoogleSpreadsheetID      string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string
	RequestsSheetName        string
	UsagesSheetName          string

	// Worker
	ReconnectDelay time.Duration
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		LedgerBackend: getEnv("LEDGER_BACKEND", "memory"),
		CSVLedgerPath: getEnv("CSV_LEDGER_PATH", "./data/requests.csv"),
		SQLiteDBPath:  getEnv("SQLITE_DB_PATH", "./data/stationery.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "stationery"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "sync_records"),

		CatalogSource:    getEnv("CATALOG_SOURCE", "csv"),
		CatalogPath:      getEnv("CATALOG_PATH", "./items_master.csv"),
		CatalogSheetName: getEnv("CATALOG_SHEET_NAME", "Items"),

		Departments:      getEnvList("DEPARTMENTS", DefaultDepartments),
		AllowManualEntry: getEnvBool("ALLOW_MANUAL_ENTRY", true),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		RequestsSheetName:        getEnv("REQUESTS_SHEET_NAME", "Requests"),
		UsagesSheetName:          getEnv("USAGES_SHEET_NAME", "Usages"),

		ReconnectDelay: getEnvDuration("RECONNECT_DELAY", 5*time.Second),
	}

	return cfg
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

	// Validate ledger backend
	validBackends := []string{"memory", "csv", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.LedgerBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid ledger backend '%s': must be one of %v", c.LedgerBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.LedgerBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			// Check if directory exists or can be created
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

	// Validate CSV ledger path if backend is csv
	if c.LedgerBackend == "csv" && c.CSVLedgerPath == "" {
		errors = append(errors, "CSV ledger path cannot be empty when using csv backend")
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
	}

	// Validate AMQP exchange and queue names if AMQP is configured
	if c.AMQPURL != "" {
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate catalog source
	switch c.CatalogSource {
	case "csv":
		if c.CatalogPath == "" {
			errors = append(errors, "catalog path cannot be empty when using csv catalog source")
		}
	case "sheets":
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets catalog source")
		}
		if c.CatalogSheetName == "" {
			errors = append(errors, "catalog sheet name cannot be empty when using sheets catalog source")
		}

		// Must have either a service account file or inline JSON
		hasFile := c.GoogleServiceAccountFile != ""
		hasJSON := c.GoogleServiceAccountJSON != ""
		if !hasFile && !hasJSON {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON must be provided for sheets catalog source")
		}

		// Check if the service account file exists (if specified)
		if hasFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid catalog source '%s': must be one of [csv sheets]", c.CatalogSource))
	}

	// Validate departments: entries must be non-blank. An empty list is
	// allowed and means free-text departments.
	for _, d := range c.Departments {
		if strings.TrimSpace(d) == "" {
			errors = append(errors, "department names cannot be blank")
			break
		}
	}

	// Validate worker configuration
	if c.ReconnectDelay < time.Second {
		errors = append(errors, fmt.Sprintf("invalid reconnect delay %v: must be at least 1 second", c.ReconnectDelay))
	} else if c.ReconnectDelay > 10*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid reconnect delay %v: must be at most 10 minutes", c.ReconnectDelay))
	}

	// Return combined errors
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

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
