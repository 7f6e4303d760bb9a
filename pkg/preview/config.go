package preview

// Config is the preview server configuration.
type Config struct {
	// Address to listen on (e.g., ":3333")
	ListenAddr string

	// Dir is the generated project. Its public/ directory is served at "/".
	Dir string

	// DBPath is the SQLite transcript database.
	// Use ":memory:" for an in-memory database, or empty for in-memory.
	DBPath string
}
