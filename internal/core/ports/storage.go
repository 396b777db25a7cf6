package ports

import "context"

// Storage bundles the three stores of one backend.
type Storage struct {
	Users   UserRepository
	Posts   PostRepository
	Follows FollowRepository
	// Pinger reports backend health; Close releases backend resources.
	Pinger Pinger
	Close  func(ctx context.Context) error
}

// Pinger is implemented by anything the readiness check can ping.
type Pinger interface {
	Ping(ctx context.Context) error
}
