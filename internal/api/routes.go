package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(MetricsMiddleware)

	// Operational endpoints
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Auth routes
	api.HandleFunc("/auth/register", handler.Register).Methods("POST")
	api.HandleFunc("/auth/login", handler.Login).Methods("POST")
	api.HandleFunc("/auth/logout", handler.Logout).Methods("POST")
	api.HandleFunc("/auth/me", handler.WithAuth(handler.Me)).Methods("GET")

	// Telemetry routes
	api.HandleFunc("/tank-levels", handler.WithAuth(handler.GetTankLevels)).Methods("GET")
	api.HandleFunc("/tank-levels", handler.WithAuth(handler.AddTankLevel)).Methods("POST")
	api.HandleFunc("/stats", handler.WithAuth(handler.GetStats)).Methods("GET")

	// Anomaly routes
	api.HandleFunc("/anomalies", handler.WithAuth(handler.GetAnomalies)).Methods("GET")
	api.HandleFunc("/anomalies/mark-normal", handler.WithAuth(handler.MarkNormal)).Methods("POST")
	api.HandleFunc("/user-anomalies", handler.WithAuth(handler.CreateUserAnomaly)).Methods("POST")
	api.HandleFunc("/user-anomalies", handler.WithAuth(handler.ListUserAnomalies)).Methods("GET")
	api.HandleFunc("/user-anomalies/{id:[0-9]+}", handler.WithAuth(handler.UpdateUserAnomalyStatus)).Methods("PUT")
	api.HandleFunc("/model-feedback", handler.WithAuth(handler.GetModelFeedback)).Methods("GET")

	// Subscription routes
	api.HandleFunc("/subscription/tiers", handler.GetSubscriptionTiers).Methods("GET")
	api.HandleFunc("/subscription/upgrade", handler.WithAuth(handler.UpgradeSubscription)).Methods("POST")

	// Integration routes
	api.HandleFunc("/integrations", handler.WithAuth(handler.ListIntegrations)).Methods("GET")
	api.HandleFunc("/integrations", handler.WithAuth(handler.CreateIntegration)).Methods("POST")
	api.HandleFunc("/integrations/{id:[0-9]+}", handler.WithAuth(handler.GetIntegrationByID)).Methods("GET")
	api.HandleFunc("/integrations/{id:[0-9]+}", handler.WithAuth(handler.UpdateIntegration)).Methods("PUT")
	api.HandleFunc("/integrations/{id:[0-9]+}", handler.WithAuth(handler.DeleteIntegration)).Methods("DELETE")

	return r
}
