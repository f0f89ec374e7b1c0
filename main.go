package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/angelbv/cvweb-backend/api"
	"github.com/angelbv/cvweb-backend/config"
	"github.com/angelbv/cvweb-backend/database"
	"github.com/angelbv/cvweb-backend/models"
	"github.com/angelbv/cvweb-backend/uploads"
)

// Upload data lives under data/ so runtime state never lands inside a Go
// package directory of the repo.
const (
	defaultImagesDir    = "data/uploads/images"
	defaultDocumentsDir = "data/uploads/documents"
	defaultResumeName   = "cv_angel.pdf"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}
	c := config.New()

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := openDatabase(c, newLogger)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		fmt.Printf("Error testing database connection: %v\n", err)
		os.Exit(1)
	}

	if err := database.EnsureSchema(db); err != nil {
		fmt.Printf("Error migrating schema: %v\n", err)
		os.Exit(1)
	}

	currentDB := database.New(db)

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		fmt.Println("Generating models and query helpers...")
		models.GenerateModels(db)
		return
	}

	// If creating the admin account, upsert and exit
	if config.GetBool(c, "CREATE_ADMIN", false) {
		if err := createAdmin(currentDB, c); err != nil {
			fmt.Printf("Error creating admin account: %v\n", err)
			os.Exit(1)
		}
		return
	}

	store, err := uploads.New(
		config.GetString(c, "UPLOAD_DIR", defaultImagesDir),
		config.GetString(c, "DOCUMENTS_DIR", defaultDocumentsDir),
		config.GetString(c, "RESUME_FILENAME", defaultResumeName),
	)
	if err != nil {
		fmt.Printf("Error preparing upload directories: %v\n", err)
		os.Exit(1)
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB, store)
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// openDatabase connects to postgres when DB_TYPE=postgres and falls back to a
// local sqlite file otherwise, which keeps local development setup-free.
func openDatabase(c map[string]string, gormLogger logger.Interface) (*gorm.DB, error) {
	switch config.GetString(c, "DB_TYPE", "") {
	case "postgres":
		connStr := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			config.GetString(c, "DATABASE_HOST", "localhost"),
			config.GetString(c, "DATABASE_USER", "postgres"),
			config.GetString(c, "DATABASE_PASSWORD", ""),
			config.GetString(c, "DATABASE_NAME", "cvweb"),
			config.GetString(c, "DATABASE_PORT", "5432"),
			config.GetString(c, "DATABASE_SSLMODE", "disable"),
		)
		fmt.Println("Connecting to postgres database...")
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  connStr,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
			Logger:      gormLogger,
		})
	default:
		path := config.GetString(c, "SQLITE_PATH", "data/cvweb.db")
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		fmt.Printf("Connecting to sqlite database at %s...\n", path)
		return gorm.Open(sqlite.Open(path), &gorm.Config{Logger: gormLogger})
	}
}

// createAdmin upserts the owner account from ADMIN_USERNAME and ADMIN_PASSWORD.
func createAdmin(db database.Database, c map[string]string) error {
	username := config.GetString(c, "ADMIN_USERNAME", "")
	password := config.GetString(c, "ADMIN_PASSWORD", "")
	if username == "" || password == "" {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set")
	}

	user := models.User{Username: username}
	if err := user.SetPassword(password); err != nil {
		return err
	}

	if err := db.UserRepo().Upsert(&user); err != nil {
		return err
	}

	fmt.Printf("Admin account %q is ready\n", username)
	return nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
