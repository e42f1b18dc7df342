package scene

import (
	"sync"

	"github.com/ivlev/dolly2video/internal/config"
)

// Registry tracks the active controllers of its owner.
type Registry struct {
	mu     sync.Mutex
	scenes map[*Controller]struct{}
}

func NewRegistry() *Registry {
	return &Registry{scenes: make(map[*Controller]struct{})}
}

// Add registers c; Destroy on c removes it again.
func (r *Registry) Add(c *Controller) {
	r.mu.Lock()
	r.scenes[c] = struct{}{}
	r.mu.Unlock()

	c.mu.Lock()
	c.registry = r
	c.mu.Unlock()
}

func (r *Registry) Remove(c *Controller) {
	r.mu.Lock()
	delete(r.scenes, c)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.scenes)
}

// DestroyAll destroys every registered controller.
func (r *Registry) DestroyAll() {
	r.mu.Lock()
	all := make([]*Controller, 0, len(r.scenes))
	for c := range r.scenes {
		all = append(all, c)
	}
	r.mu.Unlock()

	for _, c := range all {
		c.Destroy()
	}
}

// StartDefault constructs and starts a controller on its own frame clock and
// registers it with r. It returns nil when the scene could not be activated.
func StartDefault(r *Registry, container *Container, opts config.SceneOptions, proj Projector) *Controller {
	c := New(container, opts, proj, nil)
	if !c.Start() {
		c.Destroy()
		return nil
	}
	r.Add(c)
	return c
}
