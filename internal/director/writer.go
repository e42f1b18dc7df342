package director

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WriteScene writes a scene file as YAML.
func WriteScene(f *SceneFile, path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadScene reads and validates a YAML scene file.
func ReadScene(path string) (*SceneFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f SceneFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &f, nil
}

// Validate checks the parts of the file the engine relies on.
func (f *SceneFile) Validate() error {
	if len(f.Layers) == 0 {
		return fmt.Errorf("scene has no layers")
	}
	for i := 1; i < len(f.Scroll); i++ {
		if f.Scroll[i].Time < f.Scroll[i-1].Time {
			return fmt.Errorf("scroll keyframe %d is earlier than keyframe %d", i, i-1)
		}
	}
	for i, kf := range f.Scroll {
		if kf.Scroll < 0 {
			return fmt.Errorf("scroll keyframe %d has negative position %d", i, kf.Scroll)
		}
	}
	return nil
}
