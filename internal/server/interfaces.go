package server

// Server is the lifecycle of the process-level server and of each transport
// it manages.
type Server interface {
	// RunServer serves requests and blocks until the server stops.
	RunServer()

	// Shutdown gracefully stops serving and frees the listeners.
	Shutdown()
}
