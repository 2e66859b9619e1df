package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/tankscope/telemetry-service/internal/anomaly"
	"github.com/tankscope/telemetry-service/internal/auth"
	"github.com/tankscope/telemetry-service/internal/models"
)

// statsCacheTTL bounds staleness of cached stats snapshots.
const statsCacheTTL = 30 * time.Second

// defaultTankID is used when the client omits tank_id, matching the
// single-tank default the dashboard ships with.
const defaultTankID = "tank1"

// ReadingStore defines the interface for reading storage operations
type ReadingStore interface {
	InsertReading(r *models.Reading) error
	ListReadings(tankID string, since time.Time) ([]*models.Reading, error)
}

// ReportStore defines the interface for user anomaly report operations
type ReportStore interface {
	CreateReport(rep *models.UserAnomalyReport) error
	ListReports(tankID, status string) ([]*models.UserAnomalyReport, error)
	TransitionReport(id int, newStatus string) (*models.UserAnomalyReport, error)
	CountReportsByStatus() (confirmed, rejected, pending int, err error)
	CreateNormalMark(m *models.NormalMark) error
	CountNormalMarks(isNormal bool) (int, error)
}

// UserStore defines the interface for user account operations
type UserStore interface {
	CreateUser(u *models.User) error
	GetUser(username string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateSubscription(username, tier string, expires *time.Time) error
}

// IntegrationStore defines the interface for integration connection CRUD
type IntegrationStore interface {
	CreateIntegration(c *models.IntegrationConnection) error
	GetIntegration(id int) (*models.IntegrationConnection, error)
	ListIntegrations(userID string) ([]*models.IntegrationConnection, error)
	UpdateIntegration(c *models.IntegrationConnection) error
	DeleteIntegration(id int) error
}

// EventPublisher publishes domain events after successful writes
type EventPublisher interface {
	PublishReadingAdded(ctx context.Context, reading *models.Reading) error
	PublishReportSubmitted(ctx context.Context, report *models.UserAnomalyReport) error
}

// StatsCache caches computed stats snapshots
type StatsCache interface {
	GetStatsSnapshot(ctx context.Context, tankID string, days int) (*models.StatsSnapshot, error)
	SetStatsSnapshot(ctx context.Context, days int, snapshot *models.StatsSnapshot, ttl time.Duration) error
	InvalidateStats(ctx context.Context, tankID string) error
}

// ReadingStream broadcasts newly stored readings to live dashboards
type ReadingStream interface {
	PublishReadingUpdate(ctx context.Context, reading *models.Reading) error
}

// Pinger reports storage liveness for the health check
type Pinger interface {
	Ping() error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	readings     ReadingStore
	reports      ReportStore
	users        UserStore
	integrations IntegrationStore
	producer     EventPublisher
	cache        StatsCache
	stream       ReadingStream
	auth         *auth.Service
	detector     *anomaly.Detector
	db           Pinger
}

// HandlerConfig bundles the dependencies for NewHandler. Producer, cache
// and db may be nil; the affected features degrade gracefully.
type HandlerConfig struct {
	Readings     ReadingStore
	Reports      ReportStore
	Users        UserStore
	Integrations IntegrationStore
	Producer     EventPublisher
	Cache        StatsCache
	Stream       ReadingStream
	Auth         *auth.Service
	Detector     *anomaly.Detector
	DB           Pinger
}

// NewHandler creates a new Handler
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		readings:     cfg.Readings,
		reports:      cfg.Reports,
		users:        cfg.Users,
		integrations: cfg.Integrations,
		producer:     cfg.Producer,
		cache:        cfg.Cache,
		stream:       cfg.Stream,
		auth:         cfg.Auth,
		detector:     cfg.Detector,
		db:           cfg.DB,
	}
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services":  map[string]string{},
	}
	services := health["services"].(map[string]string)
	allHealthy := true

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			services["postgres"] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			services["postgres"] = "healthy"
		}
	} else {
		services["postgres"] = "not configured"
		allHealthy = false
	}

	if h.cache != nil {
		services["redis"] = "configured"
	} else {
		services["redis"] = "not configured"
	}

	if h.producer != nil {
		services["kafka"] = "configured"
	} else {
		services["kafka"] = "not configured"
	}

	if !allHealthy {
		health["status"] = "degraded"
	}

	respondJSON(w, http.StatusOK, health)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondFieldError(w http.ResponseWriter, message, field string) {
	respondJSON(w, http.StatusBadRequest, map[string]string{
		"error": message,
		"field": field,
	})
}
