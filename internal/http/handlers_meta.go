package httpx

import "net/http"

// MetaHandlers serves the discovery endpoints agents use before submitting a
// job: the input schema, the availability probe, and the root service card.
type MetaHandlers struct {
	ServiceName string
	Version     string
	// Ready reports whether the proxy is fully configured to take jobs.
	// A nil func means always available.
	Ready func() error
}

// fieldSchema describes one input field of the agent's schema.
type fieldSchema struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Example     string `json:"example"`
}

var inputSchema = map[string]fieldSchema{
	"csv_url": {
		Type:        "string",
		Description: "URL to CSV file containing contact information (Name, Email, Company, Website columns)",
		Required:    true,
		Example:     "https://example.com/contacts.csv",
	},
}

// InputSchema handles GET /input_schema.
func (h *MetaHandlers) InputSchema(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, inputSchema)
}

// Availability handles GET /availability.
func (h *MetaHandlers) Availability(w http.ResponseWriter, _ *http.Request) {
	if h.Ready != nil {
		if err := h.Ready(); err != nil {
			WriteJSON(w, http.StatusOK, map[string]string{
				"status":  "unavailable",
				"message": err.Error(),
			})
			return
		}
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "available",
		"message": h.ServiceName + " is online",
		"uptime":  "operational",
	})
}

// Root handles GET /{$}: a small service card listing the API surface.
func (h *MetaHandlers) Root(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"service": h.ServiceName,
		"version": h.Version,
		"status":  "operational",
		"endpoints": map[string]string{
			"POST /start_job":   "Submit a job and receive payment details",
			"GET /status":       "Poll a job by job_id",
			"GET /input_schema": "Input schema for job submissions",
			"GET /availability": "Agent availability probe",
			"GET /healthz":      "Liveness check",
		},
	})
}
