package library

import (
	"fmt"
	"os"

	"github.com/Faultbox/texbind/pkg/texture"
)

// fileSource reads texture data from disk on demand. Image files go
// through texture.DecodeImage; raw files hold a single level in Format.
type fileSource struct {
	path   string
	raw    bool
	format texture.Format
	width  int
	height int
}

// TextureData implements texture.Source.
func (s *fileSource) TextureData() (*texture.Data, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading texture: %w", err)
	}
	if !s.raw {
		return texture.DecodeImage(data, s.path)
	}
	d := &texture.Data{
		Format: s.format,
		Width:  s.width,
		Height: s.height,
		Bytes:  data,
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return d, nil
}
