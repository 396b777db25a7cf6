package jsonfile

import (
	"context"
	"fmt"
	"os"

	"github.com/minisocial/socialnet/internal/core/ports"
)

// Open returns the three stores rooted at dir. The directory is created on
// the first write.
func Open(dir string) ports.Storage {
	return ports.Storage{
		Users:   NewUserStore(dir),
		Posts:   NewPostStore(dir),
		Follows: NewFollowStore(dir),
		Pinger:  dirPinger(dir),
		Close:   func(context.Context) error { return nil },
	}
}

type dirPinger string

// Ping succeeds when the data directory is absent (fresh install) or is a directory.
func (d dirPinger) Ping(_ context.Context) error {
	info, err := os.Stat(string(d))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data dir: %s is not a directory", string(d))
	}
	return nil
}
