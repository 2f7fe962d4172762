package config

import "flag"

// Flags are the command line overrides shared by the tools. Zero values
// leave the loaded configuration untouched.
type Flags struct {
	Config     string
	Debug      bool
	Profile    string
	Library    string
	NoShaders  bool
	Software   bool
	NoMipmaps  bool
	Fullscreen bool
	Width      int
	Height     int
}

// RegisterFlags binds Flags to fs. Pass flag.CommandLine from main or a
// subcommand's own FlagSet.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Profile, "profile", "", "Game profile for texture naming rules")
	fs.StringVar(&f.Library, "library", "", "Path to material library")
	fs.BoolVar(&f.NoShaders, "no-shaders", false, "Use the fixed-function path")
	fs.BoolVar(&f.Software, "software", false, "Always decompress textures in software")
	fs.BoolVar(&f.NoMipmaps, "no-mipmaps", false, "Disable mipmap generation")
	fs.BoolVar(&f.Fullscreen, "fullscreen", false, "Run the viewer fullscreen")
	fs.IntVar(&f.Width, "width", 0, "Viewer width")
	fs.IntVar(&f.Height, "height", 0, "Viewer height")
	return f
}

// apply applies flag overrides to the config.
func (f *Flags) apply(cfg *Config) error {
	if f == nil {
		return nil
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Profile != "" {
		if err := cfg.Render.Profile.UnmarshalText([]byte(f.Profile)); err != nil {
			return err
		}
	}
	if f.Library != "" {
		cfg.Library.Path = f.Library
	}
	if f.NoShaders {
		cfg.Render.UseShaders = false
	}
	if f.Software {
		cfg.Render.ForceSoftware = true
	}
	if f.NoMipmaps {
		cfg.Render.Mipmaps = false
	}
	if f.Fullscreen {
		cfg.Viewer.Fullscreen = true
	}
	if f.Width > 0 {
		cfg.Viewer.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Viewer.Height = f.Height
	}
	return nil
}
