// Command sketchplay replays a recorded action script onto a sketch
// document and exports the result.
//
// Usage:
//
//	sketchplay -script strokes.json -output out.png
//	sketchplay -load doc.json -undo 2 -output out.pdf -save doc.json
//
// A script is a JSON array of actions. Layer ids in the script are mapped
// onto layers created on first use; actions without a layer go to the
// active layer.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	stdimage "image"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/internal/image"
)

type imageFlags map[sketch.ImageRef]string

func (f imageFlags) String() string { return fmt.Sprint(map[sketch.ImageRef]string(f)) }

func (f imageFlags) Set(v string) error {
	ref, path, ok := strings.Cut(v, "=")
	if !ok || ref == "" || path == "" {
		return fmt.Errorf("want ref=path, got %q", v)
	}
	f[sketch.ImageRef(ref)] = path
	return nil
}

type options struct {
	config  string
	width   int
	height  int
	script  string
	load    string
	save    string
	output  string
	title   string
	quality int
	undo    int
	images  imageFlags
	verbose bool
}

func main() {
	o := options{images: imageFlags{}}
	flag.StringVar(&o.config, "config", "", "TOML or YAML config file")
	flag.IntVar(&o.width, "width", 0, "canvas width (overrides config)")
	flag.IntVar(&o.height, "height", 0, "canvas height (overrides config)")
	flag.StringVar(&o.script, "script", "", "JSON action script to replay")
	flag.StringVar(&o.load, "load", "", "document to start from")
	flag.StringVar(&o.save, "save", "", "write the document here")
	flag.StringVar(&o.output, "output", "sketch.png", "export file (.png, .jpg or .pdf)")
	flag.StringVar(&o.title, "title", "", "PDF title")
	flag.IntVar(&o.quality, "quality", sketch.DefaultJPEGQuality, "JPEG quality")
	flag.IntVar(&o.undo, "undo", 0, "undo this many actions before export")
	flag.Var(o.images, "image", "register an image as ref=path (repeatable)")
	flag.BoolVar(&o.verbose, "v", false, "log engine events to stderr")
	flag.Parse()

	if o.verbose {
		sketch.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	if err := run(o); err != nil {
		log.Fatalf("sketchplay: %v", err)
	}
}

func run(o options) error {
	var opts []sketch.Option
	if o.config != "" {
		cfg, err := sketch.LoadConfig(o.config)
		if err != nil {
			return err
		}
		opts = append(opts, sketch.WithConfig(cfg))
	}

	s, err := open(o, opts)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := registerImages(s, o.images); err != nil {
		return err
	}
	if o.script != "" {
		if err := replay(s, o.script); err != nil {
			return err
		}
	}
	for range o.undo {
		if st, err := s.Undo(); err != nil || st != sketch.StatusOK {
			log.Printf("undo: %v %v", st, err)
			break
		}
	}

	if o.save != "" {
		if err := writeFile(o.save, s.Save); err != nil {
			return err
		}
	}
	if o.output == "" {
		return nil
	}
	return export(s, o)
}

func open(o options, opts []sketch.Option) (*sketch.Session, error) {
	if o.load == "" {
		return sketch.New(o.width, o.height, opts...)
	}
	f, err := os.Open(o.load)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return sketch.Load(f, opts...)
}

// registerImages decodes the image files concurrently and registers them
// sorted by ref.
func registerImages(s *sketch.Session, refs imageFlags) error {
	var (
		g    errgroup.Group
		keys = make([]sketch.ImageRef, 0, len(refs))
	)
	for ref := range refs {
		keys = append(keys, ref)
	}
	slices.Sort(keys)
	imgs := make([]stdimage.Image, len(keys))
	for i, ref := range keys {
		g.Go(func() error {
			img, err := image.LoadImage(refs[ref])
			if err != nil {
				return fmt.Errorf("image %s: %w", ref, err)
			}
			imgs[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, ref := range keys {
		if err := s.RegisterImage(ref, imgs[i]); err != nil {
			return err
		}
	}
	return nil
}

// replay commits every scripted action. Rejected actions are reported and
// skipped, the way an interactive session would drop them.
func replay(s *sketch.Session, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var script sketch.ActionList
	if err := json.Unmarshal(data, &script); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}

	layers := make(map[sketch.LayerID]sketch.LayerID)
	for _, l := range s.Layers() {
		layers[l.ID] = l.ID
	}
	applied := 0
	for i, a := range script {
		if id := a.LayerID(); id != "" {
			target, ok := layers[id]
			if !ok {
				info, err := s.AddLayer(string(id))
				if err != nil {
					return err
				}
				target = info.ID
				layers[id] = target
			}
			a = sketch.OnLayer(a, target)
		}
		if _, err := s.Commit(a); err != nil {
			log.Printf("action %d (%s) rejected: %v", i, a.Kind(), err)
			continue
		}
		applied++
	}
	log.Printf("replayed %d of %d actions from %s", applied, len(script), path)
	return nil
}

func export(s *sketch.Session, o options) error {
	switch ext := strings.ToLower(filepath.Ext(o.output)); ext {
	case ".png":
		return s.SavePNG(o.output)
	case ".jpg", ".jpeg":
		return writeFile(o.output, func(w io.Writer) error { return s.ExportJPEG(w, o.quality) })
	case ".pdf":
		return writeFile(o.output, func(w io.Writer) error { return s.ExportPDF(w, o.title) })
	default:
		return fmt.Errorf("output %s: unsupported format %q", o.output, ext)
	}
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
