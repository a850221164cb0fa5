package model

import "image"

// Character is the result of a generation run: a skinned mesh, its
// skeleton, the materials referenced by face indices, animation clips,
// and an optional baked base-color texture.
type Character struct {
	Name      string
	Kind      string
	Mesh      *Mesh
	Skeleton  *Skeleton
	Materials []Material
	Clips     []Clip
	Texture   image.Image
}

// Clip returns the named clip, or nil if the character does not carry it.
func (c *Character) Clip(name string) *Clip {
	for i := range c.Clips {
		if c.Clips[i].Name == name {
			return &c.Clips[i]
		}
	}
	return nil
}
