package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

type ContextKey string

const (
	ContextURL ContextKey = "servicios-url"
)

// Connect opens the SQLite database at the given path and migrates it.
func Connect(dsn string) error {
	db, err := open(sqlite.Open(fmt.Sprintf("%s?_pragma=foreign_keys(1)", dsn)))
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	// SQLite only supports one writer at a time, a single connection
	// avoids SQLITE_BUSY errors
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	DB = db
	return nil
}

// ConnectPostgres opens a PostgreSQL database and migrates it.
func ConnectPostgres(dsn string) error {
	db, err := open(postgres.Open(dsn))
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)

	DB = db
	return nil
}

func open(dialector gorm.Dialector) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger: &logger{
			Logger:        log.Logger,
			SlowThreshold: 200 * time.Millisecond,
		},
		NowFunc: func() time.Time {
			return time.Now().In(time.UTC)
		},
	}

	db, err := gorm.Open(dialector, config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = migrate(db)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// Get new connections after one hour
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = registerCallbacks(db)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func registerCallbacks(db *gorm.DB) error {
	err := db.Callback().Query().After("*").Register("servicios:after_query", queryCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Query().After("*").Register("servicios:after_query_general", generalCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Create().After("*").Register("servicios:after_create", createUpdateCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Create().After("*").Register("servicios:after_create_general", generalCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Update().After("*").Register("servicios:after_update", createUpdateCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Update().After("*").Register("servicios:after_update_general", generalCallback)
	if err != nil {
		return err
	}

	return db.Callback().Delete().After("*").Register("servicios:after_delete_general", generalCallback)
}

// queryCallback replaces the generic "no record" error with one naming
// the resource that was not found.
func queryCallback(db *gorm.DB) {
	if errors.Is(db.Error, gorm.ErrRecordNotFound) {
		db.Error = fmt.Errorf("%w %s matching your query", ErrResourceNotFound, resourceName(db.Statement.Table))
	}
}

// resourceName turns a table name into a singular, human readable name,
// e.g. "meter_group_units" becomes "meter group unit".
func resourceName(table string) string {
	name := strings.ReplaceAll(table, "_", " ")
	if strings.HasSuffix(name, "ies") {
		return strings.TrimSuffix(name, "ies") + "y"
	}

	return strings.TrimSuffix(name, "s")
}

// uniqueErrors maps tables to the error returned when one of their
// unique indices is violated.
var uniqueErrors = map[string]error{
	"units":               ErrUnitCodeNotUnique,
	"meter_groups":        ErrMeterGroupCodeNotUnique,
	"meter_group_units":   ErrMeterGroupUnitNotUnique,
	"meter_readings":      ErrReadingNotUnique,
	"utility_invoices":    ErrInvoiceNotUnique,
	"invoice_allocations": ErrAllocationNotUnique,
}

// createUpdateCallback replaces constraint violations reported by the
// database with errors users can act on.
func createUpdateCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	if table, ok := uniqueViolation(db.Error); ok {
		if err, known := uniqueErrors[table]; known {
			db.Error = err
		}
		return
	}

	if foreignKeyViolation(db.Error) {
		db.Error = ErrReferenceNotFound
	}
}

// uniqueViolation reports if err is a unique constraint violation and on
// which table it happened.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.TableName, pgErr.Code == "23505"
	}

	// SQLite: "UNIQUE constraint failed: meter_readings.meter_group_id, ..."
	_, columns, found := strings.Cut(err.Error(), "UNIQUE constraint failed: ")
	if !found {
		return "", false
	}

	table, _, _ := strings.Cut(columns, ".")
	return table, true
}

func foreignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}

	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// generalCallback handles unspecified errors.
//
// For these errors, we cannot provide the user with a helpful message.
// Instead, the error is logged and we return a general message to users.
func generalCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	var sqliteErr *go_sqlite.Error
	var pgErr *pgconn.PgError

	// "sql: database is closed" is hard-coded in database/sql
	if db.Error.Error() == "sql: database is closed" || errors.As(db.Error, &sqliteErr) || errors.As(db.Error, &pgErr) {
		log.Error().Msgf("%T: %v", db.Error, db.Error.Error())
		db.Error = ErrGeneral
	}
}

// migrate migrates all models to the schema defined in the code.
func migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		Unit{},
		MeterGroup{},
		MeterGroupUnit{},
		MeterReading{},
		UtilityInvoice{},
		InvoiceCharge{},
		InvoiceAllocation{},
		Reservation{},
	)
	if err != nil {
		return fmt.Errorf("error during DB migration: %w", err)
	}

	return nil
}
