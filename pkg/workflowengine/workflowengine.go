package workflowengine

import (
	"database/sql"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/kasunvimarshana/AutoERP-sub011/internal/commands"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/config"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/controllers"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/core"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/domain"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/engine"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/migrations"
	"github.com/kasunvimarshana/AutoERP-sub011/internal/repository"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lmittmann/tint"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/go-sql-driver/mysql"
	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/mattn/go-sqlite3"
)

// Start boots the workflow engine and HTTP server.
// This call blocks until the HTTP server stops.
func Start(mux *http.ServeMux) error {

	databaseType := config.GetSystemSettingString(config.DATABASE_TYPE)
	if databaseType == "" || (databaseType != config.DATABASE_TYPE_POSTGRES && databaseType != config.DATABASE_TYPE_MYSQL && databaseType != config.DATABASE_TYPE_SQLLITE) {
		panic("AUTOERP_DATABASE_TYPE must be set to one of the following values: POSTGRES, MYSQL, SQLLITE")
	}

	var db *sql.DB
	if databaseType == config.DATABASE_TYPE_POSTGRES {
		db = setupPostgresDatabase()
		defer db.Close()
	}
	if databaseType == config.DATABASE_TYPE_SQLLITE {
		db = setupSqlLiteDatabase()
		defer db.Close()
	}
	if databaseType == config.DATABASE_TYPE_MYSQL {
		db = setupMysqlDatabase()
		defer db.Close()
	}

	clock := &core.RealClock{}
	definitionRepo := repository.NewWorkflowDefinitionRepository(db, clock)
	instanceRepo := repository.NewWorkflowInstanceRepository(db, clock)
	auditRepo := repository.NewAuditRepository(db, clock)
	userRepo := repository.NewUserRepository(db, clock)

	seedRootUser(userRepo)

	pipeline := commands.NewPipeline(
		commands.WithValidation(),
		commands.WithAudit(auditRepo, clock),
	)
	definitions, instances := engine.NewServices(definitionRepo, instanceRepo, pipeline, clock)

	if mux == nil {
		mux = http.NewServeMux()
	}
	definitionsController := controllers.NewDefinitionsController(definitions, userRepo)
	definitionsController.RegisterRoutes(mux)
	instancesController := controllers.NewInstancesController(instances, userRepo)
	instancesController.RegisterRoutes(mux)
	usersController := controllers.NewUsersController(userRepo)
	usersController.RegisterRoutes(mux)

	addr := ":" + config.GetSystemSettingString(config.SERVER_WEB_PORT)
	if v := config.GetSystemSettingString(config.SERVER_HTTP_ADDR); v != "" {
		addr = v
	}
	slog.Info("Starting HTTP server", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("HTTP server failed", "error", err)
		return err
	}
	return nil
}

// seedRootUser creates the initial api user from AUTOERP_ROOT_API_KEY when the
// users table is empty. The root user has no tenant binding, so requests made
// with its key name the tenant in the body or query string.
func seedRootUser(userRepo *repository.UserRepository) {
	count, err := userRepo.CountAll()
	if err != nil {
		slog.Error("Failed to count users", "error", err)
		os.Exit(1)
	}
	if count > 0 {
		return
	}
	rootKey := config.GetSystemSettingString(config.ROOT_API_KEY)
	if rootKey == "" {
		slog.Warn("Users table is empty and AUTOERP_ROOT_API_KEY is not set, api auth will reject all requests")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(rootKey), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("Failed to hash root api key", "error", err)
		os.Exit(1)
	}
	root := &domain.User{
		Name:       "root",
		ApiKeyHash: string(hash),
		Enabled:    sql.NullBool{Bool: true, Valid: true},
	}
	if _, err := userRepo.Save(root); err != nil {
		slog.Error("Failed to seed root user", "error", err)
		os.Exit(1)
	}
	slog.Info("Seeded root api user from AUTOERP_ROOT_API_KEY")
}

func setupPostgresDatabase() *sql.DB {
	dbURL := config.GetSystemSettingString(config.DATABASE_URL)
	if dbURL == "" {
		panic("AUTOERP_DATABASE_URL must be set when using the POSTGRES database type")
	}
	slog.Info("Using Postgres database", "url", dbURL)
	slog.Info("Running migrations")
	if err := runMigrationsFromEmbed("postgres", dbURL); err != nil {
		slog.Error("DB migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Opening Postgres database")
	dbPostgres, err := sql.Open("postgres", dbURL)
	if err != nil {
		slog.Error("DB connection failed", "error", err)
		os.Exit(1)
	}
	return dbPostgres
}

func setupSqlLiteDatabase() *sql.DB {
	fileName := config.GetSystemSettingString(config.DATABASE_SQLLITE_FILE_NAME)
	if fileName == "" {
		panic("AUTOERP_DATABASE_SQLLITE_FILE_NAME must be set")
	}
	dbURL := "sqlite3://" + fileName
	slog.Info("Using SQLite database", "file", fileName)
	slog.Info("Running migrations")
	if err := runMigrationsFromEmbed("sqllite3", dbURL); err != nil {
		slog.Error("DB migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Opening SQLite database")
	dbSqlLite, err := sql.Open("sqlite3", fileName)
	if err != nil {
		log.Fatalf("Failed to open SQLite DB: %v", err)
	}
	if err := dbSqlLite.Ping(); err != nil {
		log.Fatalf("Failed to ping SQLite DB: %v", err)
	}
	return dbSqlLite
}

func setupMysqlDatabase() *sql.DB {
	dbURL := config.GetSystemSettingString(config.DATABASE_URL)
	if dbURL == "" {
		panic("AUTOERP_DATABASE_URL must be set when using the MYSQL database type")
	}
	if !strings.Contains(dbURL, "parseTime=true") {
		panic("AUTOERP_DATABASE_URL must contain 'parseTime=true' for MySQL")
	}
	if !strings.HasPrefix(dbURL, "mysql://") {
		panic("AUTOERP_DATABASE_URL must start with 'mysql://' for MySQL")
	}

	slog.Info("Using MySQL database", "url", dbURL)
	slog.Info("Running migrations")
	if err := runMigrationsFromEmbed("mysql", dbURL); err != nil {
		slog.Error("DB migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Opening MySQL database")
	dbMysql, err := sql.Open("mysql", strings.Replace(dbURL, "mysql://", "", 1))
	if err != nil {
		slog.Error("DB connection failed", "error", err)
		os.Exit(1)
	}
	return dbMysql
}

func runMigrationsFromEmbed(migrationsPath string, dbURL string) error {
	sub, err := fs.Sub(migrations.FS, migrationsPath)
	if err != nil {
		return err
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func SetupLogger() {
	w := os.Stderr
	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      slog.LevelInfo,
			TimeFormat: time.RFC3339Nano,
		}),
	))
}
