package server

// Version and Commit are overridden by the build
var (
	Version = "dev"
	Commit  = "unknown"
)
