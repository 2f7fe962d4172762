// textool inspects textures and resolves material libraries without a GPU.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/Faultbox/texbind/internal/config"
	"github.com/Faultbox/texbind/internal/library"
	"github.com/Faultbox/texbind/internal/logger"
	"github.com/Faultbox/texbind/pkg/material"
	"github.com/Faultbox/texbind/pkg/texture"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "dims":
		cmdDims(args)
	case "info":
		cmdInfo(args)
	case "export", "x":
		cmdExport(args)
	case "mips":
		cmdMips(args)
	case "resolve", "r":
		cmdResolve(args)
	case "check":
		cmdCheck(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`textool - texture preparation and material channel utility

Usage:
  textool <command> [options]

Commands:
  dims <width> <height>              Show upload size and mip count
  info [raw flags] <file>            Show texture information
  export [raw flags] <file> [out]    Decompress a texture to PNG
  mips [raw flags] <file> [dir]      Write the software mip chain as PNGs
  resolve [options] [material...]    Resolve library materials to channels
  check [options]                    Validate a material library

Raw flags (files holding one level of block data):
  -format dxt1|dxt3|dxt5|bc5|bc7|rgba8|bgra8|g8  -w <width> -h <height>

Examples:
  textool dims 300 200
  textool export -format dxt5 -w 256 -h 256 wall.bin wall.png
  textool resolve -library game.yaml -profile tron Hero
  textool check -library game.yaml`)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func cmdDims(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: textool dims <width> <height>")
		os.Exit(1)
	}
	var w, h int
	if _, err := fmt.Sscan(args[0], &w); err != nil || w < 1 {
		fail("invalid width %q", args[0])
	}
	if _, err := fmt.Sscan(args[1], &h); err != nil || h < 1 {
		fail("invalid height %q", args[1])
	}

	sw, sh := texture.ScaledSize(w, h)
	fmt.Printf("Source:  %dx%d\n", w, h)
	fmt.Printf("Upload:  %dx%d\n", sw, sh)
	fmt.Printf("Mips:    %d\n", texture.MipLevels(sw, sh)+1)
}

// rawFlags describes a headerless texture file.
type rawFlags struct {
	format string
	width  int
	height int
}

func registerRaw(fs *flag.FlagSet) *rawFlags {
	r := &rawFlags{}
	fs.StringVar(&r.format, "format", "", "Raw data format (omit for image files)")
	fs.IntVar(&r.width, "w", 0, "Raw data width")
	fs.IntVar(&r.height, "h", 0, "Raw data height")
	return r
}

func loadTexture(path string, raw *rawFlags) *texture.Data {
	data, err := os.ReadFile(path)
	if err != nil {
		fail("%v", err)
	}
	if raw.format == "" {
		d, err := texture.DecodeImage(data, path)
		if err != nil {
			fail("%v", err)
		}
		return d
	}
	f, err := texture.ParseFormat(raw.format)
	if err != nil {
		fail("%v", err)
	}
	d := &texture.Data{Format: f, Width: raw.width, Height: raw.height, Bytes: data}
	if err := d.Validate(); err != nil {
		fail("%s: %v", path, err)
	}
	return d
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	raw := registerRaw(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: textool info [raw flags] <file>")
		os.Exit(1)
	}
	d := loadTexture(fs.Arg(0), raw)

	sw, sh := texture.ScaledSize(d.Width, d.Height)
	fmt.Printf("File:       %s\n", fs.Arg(0))
	fmt.Printf("Format:     %s\n", d.Format)
	fmt.Printf("Size:       %dx%d\n", d.Width, d.Height)
	fmt.Printf("Data:       %d bytes\n", d.DataSize())
	fmt.Printf("Compressed: %v\n", d.Format.IsCompressed())
	fmt.Printf("Upload:     %dx%d, %d mip levels\n", sw, sh, texture.MipLevels(sw, sh)+1)
}

func writePNG(path string, d *texture.Data) {
	img, err := texture.ToImage(d)
	if err != nil {
		fail("%v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		fail("%v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		fail("writing %s: %v", path, err)
	}
}

func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	raw := registerRaw(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: textool export [raw flags] <file> [out.png]")
		os.Exit(1)
	}
	in := fs.Arg(0)
	out := strings.TrimSuffix(in, filepath.Ext(in)) + ".png"
	if fs.NArg() > 1 {
		out = fs.Arg(1)
	}
	if out == in {
		fail("refusing to overwrite %s", in)
	}

	writePNG(out, loadTexture(in, raw))
	fmt.Printf("Exported: %s\n", out)
}

func cmdMips(args []string) {
	fs := flag.NewFlagSet("mips", flag.ExitOnError)
	raw := registerRaw(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: textool mips [raw flags] <file> [dir]")
		os.Exit(1)
	}
	in := fs.Arg(0)
	dir := "."
	if fs.NArg() > 1 {
		dir = fs.Arg(1)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fail("%v", err)
	}

	d := loadTexture(in, raw)
	pix, err := texture.Decompress(d)
	if err != nil {
		fail("%v", err)
	}
	buf, w, h := texture.Scale(pix, d.Width, d.Height)
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))

	emit := func(level, w, h int, p []byte) {
		level0 := &texture.Data{Format: texture.FormatRGBA8, Width: w, Height: h, Bytes: p}
		path := filepath.Join(dir, fmt.Sprintf("%s_mip%d.png", base, level))
		writePNG(path, level0)
		fmt.Printf("  %-30s %dx%d\n", filepath.Base(path), w, h)
	}
	emit(0, w, h, buf)
	texture.Chain(buf, w, h, emit)
}

// setup loads the config and the material library for commands that need
// them.
func setup(name string, args []string) (*config.Config, *library.Library, *flag.FlagSet) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	fs.Parse(args)

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	opts := cfg.Logging.LoggerOptions()
	opts.File.Path = ""
	logger.Init(opts)

	lib, err := library.Load(cfg.Library.Path)
	if err != nil {
		fail("%v", err)
	}
	cfg.Render.Profile = lib.ProfileFor(cfg.Render.Profile)
	return cfg, lib, fs
}

func cmdResolve(args []string) {
	cfg, lib, fs := setup("resolve", args)
	defer logger.Sync()

	names := fs.Args()
	if len(names) == 0 {
		names = lib.Names()
	}

	r := material.Resolver{Profile: cfg.Render.Profile}
	fmt.Printf("Profile: %s\n", cfg.Render.Profile)
	for _, name := range names {
		m, err := lib.Material(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		fmt.Println()
		printChannels(name, m, r.Resolve(m))
	}
}

func texName(t material.Texture) string {
	if t == nil {
		return "-"
	}
	return t.ObjectName()
}

func printChannels(name string, m material.Material, ch material.Channels) {
	fmt.Printf("%s (%T)\n", name, m)
	if ch.IsNull() {
		fmt.Println("  (no textures, placeholder)")
	}
	for _, s := range material.TextureSlots {
		t := ch.Texture(s)
		if t == nil {
			continue
		}
		fmt.Printf("  %-15s %s\n", s, texName(t))
	}
	if ch.SpecularFromAlpha {
		fmt.Println("  specular from alpha")
	}
	if ch.OpacityFromAlpha {
		fmt.Println("  opacity from alpha")
	}
	if ch.Mask != nil {
		fmt.Printf("  mask channels   emissive=%s specular=%s specpower=%s cube=%s\n",
			ch.EmissiveChannel, ch.SpecularMaskChannel, ch.SpecularPowerChannel, ch.CubemapMaskChannel)
	}
	if c := ch.EmissiveColor; c != material.DefaultEmissiveColor {
		fmt.Printf("  emissive color  %.2f %.2f %.2f %.2f\n", c.R, c.G, c.B, c.A)
	}
	if ch.UseMobileSpecular {
		fmt.Printf("  mobile specular mask=%d power=%.1f\n", ch.MobileSpecularMask, ch.MobileSpecularPower)
	}

	st := material.StateOf(m)
	fmt.Printf("  state           blend=%v cull=%v depth=%v/%v", st.Blend, st.CullBack, st.DepthTest, st.DepthWrite)
	if st.AlphaTest {
		fmt.Printf(" alpha>%.2f", st.AlphaRef)
	}
	if material.IsTranslucent(m) {
		fmt.Print(" translucent")
	}
	fmt.Println()
}

func cmdCheck(args []string) {
	cfg, lib, _ := setup("check", args)
	defer logger.Sync()

	issues := lib.Validate()
	errs := 0
	for _, is := range issues {
		fmt.Println(is)
		if is.Level == library.IssueError {
			errs++
		}
	}
	fmt.Printf("%s: %d materials, %d textures, %d issues\n",
		cfg.Library.Path, len(lib.Names()), len(lib.TextureNames()), len(issues))
	if errs > 0 {
		os.Exit(1)
	}
}
