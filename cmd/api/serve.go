package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadp "banking-ledger/internal/adapter/http"
	idempotency "banking-ledger/internal/adapter/middleware"
	"banking-ledger/internal/adapter/repository/mysql"
	"banking-ledger/internal/config"
	"banking-ledger/internal/infrastructure/cache"
	"banking-ledger/internal/infrastructure/db"
	ucAccount "banking-ledger/internal/usecase/account"
	ucApproval "banking-ledger/internal/usecase/approval"
	ucLedger "banking-ledger/internal/usecase/ledger"
	ucLoan "banking-ledger/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), cfg.Debug)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	if cfg.DBDriver == db.DriverSQLite {
		if err := db.Migrate(gdb); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	var mutating []echo.MiddlewareFunc
	if cfg.RedisAddr != "" {
		rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return fmt.Errorf("open redis: %w", err)
		}
		defer rdb.Close()
		mutating = append(mutating, idempotency.Idempotency(cache.NewIdempotencyStore(rdb), cfg.IdempotencyTTL()))
		log.Printf("idempotency: enabled (ttl %s)", cfg.IdempotencyTTL())
	} else {
		log.Printf("idempotency: disabled (REDIS_ADDR unset)")
	}

	e := newServer(gdb, cfg, mutating...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.AppPort
	errc := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", addr)
		errc <- e.Start(addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Printf("shutting down")
	return e.Shutdown(shutdownCtx)
}

func newServer(gdb *gorm.DB, cfg *config.Config, mutating ...echo.MiddlewareFunc) *echo.Echo {
	accounts := mysql.NewAccountRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	txns := mysql.NewTransactionRepository(gdb)
	tx := mysql.NewGormUoW(gdb)
	policy := cfg.Policy()

	ledger := ucLedger.NewUsecase(tx, accounts, loans, txns, policy)
	ping := func(ctx context.Context) error {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger(), middleware.Recover(), middleware.RequestID())
	e.Validator = httpadp.NewValidator()

	httpadp.Routes{
		Health:    httpadp.NewHandler(ping),
		Accounts:  httpadp.NewAccountHandler(ucAccount.NewUsecase(accounts, loans, txns, policy), ledger),
		Loans:     httpadp.NewLoanHandler(ucLoan.NewUsecase(tx, loans, accounts, txns, policy)),
		Approvals: httpadp.NewApprovalHandler(ucApproval.NewUsecase(tx)),
		Ledger:    httpadp.NewLedgerHandler(ledger),
	}.Register(e, mutating...)
	return e
}
