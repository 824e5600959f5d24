package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"banking-ledger/internal/domain/loan"
	"banking-ledger/internal/infrastructure/db"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"
)

type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8080"`
	Debug   bool   `env:"DEBUG"`

	DBDriver   string `env:"DB_DRIVER" envDefault:"mysql"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"banking.db"`

	MySQLHost string `env:"MYSQL_HOST" envDefault:"mysql"`
	MySQLPort string `env:"MYSQL_PORT" envDefault:"3306"`
	MySQLDB   string `env:"MYSQL_DB" envDefault:"banking"`
	MySQLUser string `env:"MYSQL_USER" envDefault:"banking"`
	MySQLPass string `env:"MYSQL_PASS" envDefault:"banking"`

	// Empty disables the idempotency middleware.
	RedisAddr    string `env:"REDIS_ADDR"`
	RedisDB      int    `env:"REDIS_DB" envDefault:"0"`
	IdempTTLSecs int    `env:"IDEMPOTENCY_TTL_SECONDS" envDefault:"300"`

	Loan LoanConfig `envPrefix:"LOAN_"`
}

// LoanConfig holds the application bounds and the payment balance floor.
// Values come from LOAN_* variables and may be overridden by a TOML file.
type LoanConfig struct {
	MinLoanAmount   decimal.Decimal `env:"MIN_AMOUNT" envDefault:"1000" toml:"min_loan_amount"`
	MaxLoanAmount   decimal.Decimal `env:"MAX_AMOUNT" envDefault:"1000000" toml:"max_loan_amount"`
	MinInterestRate decimal.Decimal `env:"MIN_INTEREST_RATE" envDefault:"3" toml:"min_interest_rate"`
	MaxInterestRate decimal.Decimal `env:"MAX_INTEREST_RATE" envDefault:"25" toml:"max_interest_rate"`
	MinTermMonths   int             `env:"MIN_TERM_MONTHS" envDefault:"6" toml:"min_term_months"`
	MaxTermMonths   int             `env:"MAX_TERM_MONTHS" envDefault:"360" toml:"max_term_months"`
	MinBalance      decimal.Decimal `env:"MIN_BALANCE" envDefault:"0" toml:"min_balance"`
}

func Load() (*Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &c, nil
}

// LoadPolicyFile overrides the loan bounds with the keys present in a TOML
// file. Keys it does not know are an error.
func (c *Config) LoadPolicyFile(path string) error {
	md, err := toml.DecodeFile(path, &c.Loan)
	if err != nil {
		return fmt.Errorf("policy file %s: %w", path, err)
	}
	if extra := md.Undecoded(); len(extra) > 0 {
		return fmt.Errorf("policy file %s: unknown keys %v", path, extra)
	}
	return nil
}

func (c *Config) Policy() loan.Policy {
	return loan.Policy{
		MinLoanAmount:   c.Loan.MinLoanAmount,
		MaxLoanAmount:   c.Loan.MaxLoanAmount,
		MinInterestRate: c.Loan.MinInterestRate,
		MaxInterestRate: c.Loan.MaxInterestRate,
		MinTermMonths:   c.Loan.MinTermMonths,
		MaxTermMonths:   c.Loan.MaxTermMonths,
		MinBalance:      c.Loan.MinBalance,
	}
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case db.DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case db.DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("missing SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.RedisAddr != "" && c.IdempTTLSecs <= 0 {
		return fmt.Errorf("invalid IDEMPOTENCY_TTL_SECONDS %d", c.IdempTTLSecs)
	}
	if err := c.Policy().Validate(); err != nil {
		return fmt.Errorf("loan policy: %w", err)
	}
	return nil
}

func (c *Config) IdempotencyTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == db.DriverSQLite {
		return c.SQLitePath
	}
	return c.MySQLDSN()
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME; loc=UTC keeps stored times in UTC
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
