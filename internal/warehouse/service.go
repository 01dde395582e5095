// Package warehouse wraps the Snowflake session used to seed and read
// the sample analytics tables. The rest of the tool only ever hands it
// statements to execute, so swapping the backing warehouse means
// swapping this package.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/snowflakedb/gosnowflake"

	"metricseed/pkg/errors"
)

// Config holds Snowflake connection configuration
type Config struct {
	Account   string
	Username  string
	Password  string
	Role      string
	Warehouse string
	Database  string
	Schema    string
	Timeout   time.Duration
}

// Service provides Snowflake database operations
type Service struct {
	db        *sql.DB
	config    Config
	connected bool
}

// NewService creates a new warehouse service
func NewService(config Config) *Service {
	return &Service{config: config}
}

// NewServiceWithDB wraps an existing connection; used by tests.
func NewServiceWithDB(db *sql.DB, config Config) *Service {
	return &Service{db: db, config: config, connected: true}
}

// Connect establishes a connection to Snowflake, retrying transient
// failures with backoff.
func (s *Service) Connect() error {
	if s.connected {
		return nil
	}

	return errors.RetryWithBackoff(context.Background(), func(ctx context.Context) error {
		dsn := fmt.Sprintf("%s:%s@%s/%s/%s?warehouse=%s&role=%s",
			s.config.Username,
			s.config.Password,
			s.config.Account,
			s.config.Database,
			s.config.Schema,
			s.config.Warehouse,
			s.config.Role,
		)

		db, err := sql.Open("snowflake", dsn)
		if err != nil {
			return errors.ConnectionError("Failed to open Snowflake connection", err).
				WithContext("account", s.config.Account).
				WithContext("warehouse", s.config.Warehouse)
		}

		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(10 * time.Minute)

		connCtx, cancel := s.getContext()
		defer cancel()

		if err := db.PingContext(connCtx); err != nil {
			db.Close()

			if strings.Contains(err.Error(), "authentication") {
				return errors.New(errors.ErrCodeAuthenticationFailed, "Authentication failed").
					WithContext("user", s.config.Username).
					WithSuggestions(
						"Verify your username and password",
						"Check if your account is locked",
					)
			}

			return errors.ConnectionError("Failed to connect to Snowflake", err).
				WithContext("account", s.config.Account).
				AsRecoverable()
		}

		s.db = db
		s.connected = true
		return nil
	})
}

// Close closes the database connection
func (s *Service) Close() error {
	if !s.connected {
		return nil
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}

	s.connected = false
	return nil
}

// Connected reports whether a session is established.
func (s *Service) Connected() bool {
	return s.connected
}

// BeginTransaction starts a new transaction
func (s *Service) BeginTransaction(ctx context.Context) (*sql.Tx, error) {
	if !s.connected {
		return nil, errors.New(errors.ErrCodeConnectionFailed, "Not connected to warehouse").
			WithSuggestions("Call Connect() before executing SQL")
	}
	return s.db.BeginTx(ctx, nil)
}

// ExecuteStatement runs a single statement outside any transaction.
func (s *Service) ExecuteStatement(ctx context.Context, stmt string) error {
	if !s.connected {
		return errors.New(errors.ErrCodeConnectionFailed, "Not connected to warehouse").
			WithSuggestions("Call Connect() before executing SQL")
	}

	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return errors.SQLError("Failed to execute statement", stmt, err)
	}
	return nil
}

// Query executes a read query and returns the rows.
func (s *Service) Query(ctx context.Context, query string) (*sql.Rows, error) {
	if !s.connected {
		return nil, errors.New(errors.ErrCodeConnectionFailed, "Not connected to warehouse")
	}
	return s.db.QueryContext(ctx, query)
}

// TestConnection tests the database connection
func (s *Service) TestConnection() error {
	if !s.connected {
		if err := s.Connect(); err != nil {
			return err
		}
	}

	ctx, cancel := s.getContext()
	defer cancel()

	return s.db.PingContext(ctx)
}

func (s *Service) getContext() (context.Context, context.CancelFunc) {
	timeout := s.config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

// ValidateConfig validates the warehouse configuration
func ValidateConfig(config Config) error {
	if config.Account == "" {
		return fmt.Errorf("account is required")
	}
	if config.Username == "" {
		return fmt.Errorf("username is required")
	}
	if config.Password == "" {
		return fmt.Errorf("password is required")
	}
	if config.Warehouse == "" {
		return fmt.Errorf("warehouse is required")
	}
	if config.Role == "" {
		return fmt.Errorf("role is required")
	}
	if config.Database == "" {
		return fmt.Errorf("database is required")
	}
	if config.Schema == "" {
		return fmt.Errorf("schema is required")
	}
	return nil
}
