package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8000"`

	// BaseURL is the base URL of the proxy (e.g., "https://agent.example.com").
	// Used when registering the agent with external directories.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8000"`
}
