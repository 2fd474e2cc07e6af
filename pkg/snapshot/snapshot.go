// Package snapshot stores encoded frame documents.
//
// A snapshot is the protocol encoding of one rendered frame array, with
// its fragments expanded. Snapshots are addressed by slash-separated keys
// such as "demo/card" and kept on disk or in S3.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/vango-dev/frametree/pkg/frame"
	"github.com/vango-dev/frametree/pkg/protocol"
)

// Extension is appended to keys to form object names.
const Extension = ".ftd"

// ErrNotFound is returned when a snapshot doesn't exist.
var ErrNotFound = errors.New("snapshot: not found")

// ErrInvalidKey is returned for empty keys or keys escaping the store root.
var ErrInvalidKey = errors.New("snapshot: invalid key")

// Store is the interface for snapshot storage backends.
type Store interface {
	// Put stores data under key, replacing any previous snapshot.
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the snapshot stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns the keys beginning with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Save encodes fs and stores it under key.
func Save(ctx context.Context, s Store, key string, fs frame.Frames, limits *protocol.DepthLimits) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return s.Put(ctx, key, protocol.EncodeFrames(fs, limits))
}

// Load fetches and decodes the snapshot stored under key.
func Load(ctx context.Context, s Store, key string, limits *protocol.DepthLimits) (frame.Frames, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	data, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	fs, err := protocol.DecodeFrames(data, limits)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", key, err)
	}
	return fs, nil
}

// ValidateKey reports whether key is a clean relative path.
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || path.Clean(key) != key {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}
