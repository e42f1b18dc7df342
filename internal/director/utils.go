package director

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ivlev/dolly2video/internal/system"
)

// GenerateScenePath creates a timestamped scene filename inside dir.
func GenerateScenePath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("scene_%s.yaml", timestamp))
}

// FindLatestScene finds the most recently modified scene file in dir.
func FindLatestScene(dir string) (string, error) {
	path, err := system.FindLatestScene(dir)
	if err != nil {
		return "", fmt.Errorf("no scene files found in %s: %w", dir, err)
	}
	return path, nil
}
