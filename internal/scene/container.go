package scene

// Element is an attribute-carrying node of the container model.
type Element struct {
	Attributes map[string]string
}

// Attr returns the attribute value and whether it was set.
func (e *Element) Attr(key string) (string, bool) {
	if e == nil || e.Attributes == nil {
		return "", false
	}
	v, ok := e.Attributes[key]
	return v, ok
}

// Container holds the scene wrapper and its ordered layer elements.
type Container struct {
	Attributes map[string]string
	Scene      *Element
	Layers     []Element
	Height     int // current height, never shrunk by the scene
}

// wrapper returns the scene wrapper, creating an empty one if absent.
func (c *Container) wrapper() *Element {
	if c.Scene == nil {
		c.Scene = &Element{Attributes: map[string]string{}}
	}
	return c.Scene
}

// sceneAttr looks the key up on the wrapper first, then on the container.
func (c *Container) sceneAttr(key string) (string, bool) {
	if v, ok := c.wrapper().Attr(key); ok {
		return v, true
	}
	v, ok := c.Attributes[key]
	return v, ok
}
