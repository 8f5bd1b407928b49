package httpx

import (
	"net/http"

	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Jobs        *service.JobService
	ServiceName string
	Version     string
	// Ready gates the availability endpoint (optional).
	Ready func() error
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	jobHandlers := &JobHandlers{Svc: services.Jobs}
	metaHandlers := &MetaHandlers{
		ServiceName: services.ServiceName,
		Version:     services.Version,
		Ready:       services.Ready,
	}

	mux.HandleFunc("POST /start_job", jobHandlers.StartJob)
	mux.HandleFunc("GET /status", jobHandlers.Status)
	mux.HandleFunc("GET /input_schema", metaHandlers.InputSchema)
	mux.HandleFunc("GET /availability", metaHandlers.Availability)
	mux.HandleFunc("GET /{$}", metaHandlers.Root)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return mux
}
