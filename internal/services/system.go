package services

import (
	"context"
	"fmt"
	"time"

	"pguncle/internal/config"
	"pguncle/internal/logger"
	"pguncle/internal/storage"
)

type HealthReport struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Duration  string    `json:"duration"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
}

func (h HealthReport) Healthy() bool { return h.Status == "healthy" }

type DocumentDiagnostics struct {
	Success         bool   `json:"success"`
	PropertiesCount int64  `json:"propertiesCount"`
	TestDocID       string `json:"testDocId"`
}

type SystemService struct {
	docs storage.DocumentStore
	rel  storage.RelationalStore
	log  *logger.Logger
	now  func() time.Time
}

// NewSystemService builds the probe service. rel may be nil when no
// relational backend is configured.
func NewSystemService(docs storage.DocumentStore, rel storage.RelationalStore, log *logger.Logger) *SystemService {
	return &SystemService{docs: docs, rel: rel, log: log, now: time.Now}
}

// Health times a trivial relational query.
func (s *SystemService) Health(ctx context.Context) HealthReport {
	start := s.now()
	var err error
	if s.rel == nil {
		err = fmt.Errorf("relational backend not configured")
	} else {
		err = s.rel.Ping(ctx)
	}
	elapsed := s.now().Sub(start)

	report := HealthReport{
		Status:    "healthy",
		Database:  "connected",
		Duration:  fmt.Sprintf("%dms", elapsed.Milliseconds()),
		Timestamp: s.now().UTC(),
	}
	if err != nil {
		s.log.Error("HEALTH", fmt.Sprintf("Database health check failed: %v", err))
		report.Status = "unhealthy"
		report.Database = "disconnected"
		report.Error = "database ping failed"
	}
	return report
}

// Diagnostics counts properties and writes then deletes a probe document.
func (s *SystemService) Diagnostics(ctx context.Context) (*DocumentDiagnostics, error) {
	count, err := s.docs.CountProperties(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count properties: %w", err)
	}

	id, err := s.docs.WriteProbe(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to write probe document: %w", err)
	}
	if err := s.docs.DeleteProbe(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete probe document %s: %w", id, err)
	}

	s.log.LogDatabase("DIAGNOSTICS", "documents", fmt.Sprintf("%d properties, probe %s ok", count, id))
	return &DocumentDiagnostics{Success: true, PropertiesCount: count, TestDocID: id}, nil
}

// RefreshSchema ensures relational tables exist and reloads the column cache.
func (s *SystemService) RefreshSchema(ctx context.Context) (string, error) {
	if s.rel == nil {
		return "", newError(ErrNotConfigured, "Relational backend not configured")
	}
	snap, err := s.rel.RefreshSchema(ctx)
	if err != nil {
		return "", fmt.Errorf("schema refresh: %w", err)
	}
	return fmt.Sprintf("Schema cache reloaded (%d tables)", len(snap.Tables)), nil
}

// Env reports which configuration variables are set, never their values.
func (s *SystemService) Env() map[string]bool {
	return config.Presence()
}
