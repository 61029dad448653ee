package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bookstore/internal/auth"
	"bookstore/internal/config"
	"bookstore/internal/handlers"
	"bookstore/internal/models"
	"bookstore/internal/repositories"
	"bookstore/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get generic DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := migrate(db); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	registerDecimalValidation()

	userRepo := repositories.NewUserRepository(db)
	authorRepo := repositories.NewAuthorRepository(db)
	bookRepo := repositories.NewBookRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)

	accountService := services.NewAccountService(db, userRepo)
	catalogService := services.NewCatalogService(db, authorRepo, bookRepo)
	orderService := services.NewOrderService(db, bookRepo, orderRepo)
	reviewService := services.NewReviewService(db, bookRepo, reviewRepo)
	exportService := services.NewExportService(db)

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	router := gin.Default()
	handlers.RegisterRoutes(router, accountService, catalogService, orderService, reviewService, exportService, issuer, userRepo)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  90 * time.Second,
	}

	go func() {
		log.Printf("[INFO] Starting server on %s", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[INFO] Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[ERROR] shutdown: %v", err)
	}
	_ = sqlDB.Close()
}

func migrate(db *gorm.DB) error {
	// uuid_generate_v4() defaults on primary keys need the extension in place.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}
	return db.AutoMigrate(
		&models.User{},
		&models.Author{},
		&models.Book{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
	)
}

// registerDecimalValidation teaches the binding validator to treat
// decimal.Decimal as a number, so tags like gt=0 work on price fields.
func registerDecimalValidation() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}
