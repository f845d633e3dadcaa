package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"

	"pguncle/internal/config"
	"pguncle/internal/logger"
	"pguncle/internal/models"
)

// RelationalStore is the secondary backend: liveness checks, schema refresh
// and payment records.
type RelationalStore interface {
	Ping(ctx context.Context) error
	RefreshSchema(ctx context.Context) (*SchemaSnapshot, error)
	SavePaymentRecord(ctx context.Context, rec *models.PaymentRecord) error
	MarkPaymentCaptured(ctx context.Context, orderID, paymentID string) error
	GetPaymentRecord(ctx context.Context, orderID string) (*models.PaymentRecord, error)
	ListPaymentRecords(ctx context.Context, limit, offset int) ([]models.PaymentRecord, error)
	Close() error
}

// SchemaSnapshot is the column cache loaded from information_schema.
type SchemaSnapshot struct {
	Tables   map[string][]string
	LoadedAt time.Time
}

func (s *SchemaSnapshot) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for t := range s.Tables {
		names = append(names, t)
	}
	sort.Strings(names)
	return names
}

type MySQLStore struct {
	db  *bun.DB
	log *logger.Logger

	schemaMu sync.RWMutex
	schema   *SchemaSnapshot
}

func NewMySQLStore(cfg config.DatabaseConfig, log *logger.Logger) (*MySQLStore, error) {
	log.LogDatabase("CONNECT", "mysql", fmt.Sprintf("Connecting to MySQL at %s:%s", cfg.Host, cfg.Port))

	sqldb, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		log.Error("DATABASE", "Failed to open MySQL connection: "+err.Error())
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := sqldb.PingContext(ctx); err != nil {
		log.Error("DATABASE", "Failed to ping MySQL: "+err.Error())
		_ = sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := NewMySQLStoreFromDB(sqldb, log)
	if _, err := store.RefreshSchema(ctx); err != nil {
		log.Error("DATABASE", "Failed to initialize tables: "+err.Error())
		_ = sqldb.Close()
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	log.LogDatabase("SUCCESS", "mysql", "MySQL connection established and tables initialized")
	return store, nil
}

// NewMySQLStoreFromDB wraps an open *sql.DB without touching the schema.
func NewMySQLStoreFromDB(sqldb *sql.DB, log *logger.Logger) *MySQLStore {
	return &MySQLStore{
		db:  bun.NewDB(sqldb, mysqldialect.New()),
		log: log,
	}
}

// Ping runs a trivial query against the backend.
func (s *MySQLStore) Ping(ctx context.Context) error {
	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("mysql ping: %w", err)
	}
	return nil
}

// RefreshSchema creates missing tables and reloads the column cache.
func (s *MySQLStore) RefreshSchema(ctx context.Context) (*SchemaSnapshot, error) {
	s.log.LogDatabase("MIGRATE", "mysql", "Ensuring payment_records table exists")

	_, err := s.db.NewCreateTable().
		Model((*models.PaymentRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment_records table: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT table_name, column_name FROM information_schema.columns WHERE table_schema = DATABASE() ORDER BY table_name, ordinal_position")
	if err != nil {
		return nil, fmt.Errorf("failed to read information_schema: %w", err)
	}
	defer rows.Close()

	snap := &SchemaSnapshot{Tables: make(map[string][]string), LoadedAt: time.Now().UTC()}
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return nil, fmt.Errorf("failed to scan column row: %w", err)
		}
		snap.Tables[table] = append(snap.Tables[table], column)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	s.schemaMu.Lock()
	s.schema = snap
	s.schemaMu.Unlock()

	s.log.LogDatabase("SUCCESS", "mysql", fmt.Sprintf("Schema cache reloaded with %d tables", len(snap.Tables)))
	return snap, nil
}

// Schema returns the last loaded snapshot, or nil before the first refresh.
func (s *MySQLStore) Schema() *SchemaSnapshot {
	s.schemaMu.RLock()
	defer s.schemaMu.RUnlock()
	return s.schema
}

func (s *MySQLStore) SavePaymentRecord(ctx context.Context, rec *models.PaymentRecord) error {
	s.log.LogDatabase("INSERT", "mysql", fmt.Sprintf("Saving payment record for order %s", rec.OrderID))

	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	if _, err := s.db.NewInsert().Model(rec).Exec(ctx); err != nil {
		s.log.Error("DATABASE", fmt.Sprintf("Failed to save payment record %s: %s", rec.OrderID, err.Error()))
		return fmt.Errorf("failed to save payment record: %w", err)
	}
	return nil
}

func (s *MySQLStore) MarkPaymentCaptured(ctx context.Context, orderID, paymentID string) error {
	s.log.LogDatabase("UPDATE", "mysql", fmt.Sprintf("Marking order %s captured by %s", orderID, paymentID))

	res, err := s.db.NewUpdate().
		Model((*models.PaymentRecord)(nil)).
		Set("payment_id = ?", paymentID).
		Set("status = ?", models.StatusCaptured).
		Set("updated_at = ?", time.Now().UTC()).
		Where("order_id = ?", orderID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update payment record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update payment record: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("payment record %s: %w", orderID, ErrNotFound)
	}
	return nil
}

func (s *MySQLStore) GetPaymentRecord(ctx context.Context, orderID string) (*models.PaymentRecord, error) {
	rec := new(models.PaymentRecord)
	err := s.db.NewSelect().Model(rec).Where("order_id = ?", orderID).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment record %s: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment record: %w", err)
	}
	return rec, nil
}

func (s *MySQLStore) ListPaymentRecords(ctx context.Context, limit, offset int) ([]models.PaymentRecord, error) {
	var recs []models.PaymentRecord
	q := s.db.NewSelect().Model(&recs).Order("created_at DESC").Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list payment records: %w", err)
	}
	return recs, nil
}

func (s *MySQLStore) Close() error {
	s.log.LogDatabase("CLOSE", "mysql", "Closing MySQL connection")
	return s.db.Close()
}
