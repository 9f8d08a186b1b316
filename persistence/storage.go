package persistence

import (
	"errors"
	"fmt"
	"strings"

	"square-mapper/models"
)

var (
	// ErrPersistence wraps every failure to write or read a backend
	ErrPersistence = errors.New("persistence failure")
	ErrNotFound    = errors.New("map not found")
	ErrInvalidName = errors.New("invalid map name")
)

// Storage defines the interface for map persistence
type Storage interface {
	SaveMap(name string, snapshot *models.MapSnapshot) error
	LoadMap(name string) (*models.MapSnapshot, error)
	Close() error
}

// ValidateName rejects names that can't be used as a file name
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	}
	return nil
}

func failure(op, name string, err error) error {
	return fmt.Errorf("%w: %s map %q: %w", ErrPersistence, op, name, err)
}

func notFound(name string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, name)
}
