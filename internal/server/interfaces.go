package server

// Server is a runnable transport.
type Server interface {
	// RunServer blocks until SIGINT, SIGTERM or SIGQUIT arrives or the
	// listener fails, then shuts down gracefully.
	RunServer()

	Shutdown()
}
