package cmd

import (
	"fmt"
	"strings"

	"github.com/printyhq/printy-assist/pkg/persistence"
	"github.com/printyhq/printy-assist/pkg/persistence/file"
	"github.com/printyhq/printy-assist/pkg/persistence/memory"
)

// NewPersistence picks a store from the data URL: file://<dir> for the
// JSON-file store, memory:// (or empty) for the in-memory one.
func NewPersistence(dataURL string) persistence.Persistence {
	switch {
	case dataURL == "", strings.HasPrefix(dataURL, "memory://"):
		return memory.NewPersistence()
	default:
		store, err := file.NewPersistence(dataURL)
		if err != nil {
			panic(fmt.Errorf("failed to open data directory %s: %w", dataURL, err))
		}

		return store
	}
}
