// Command boxgen is the headless form: flags fill the fields, Apply builds
// the box, and the resulting node tree is printed. With -stl the box is
// tessellated and written as binary STL.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chazu/cratekit/pkg/config"
	"github.com/chazu/cratekit/pkg/export"
	"github.com/chazu/cratekit/pkg/form"
	"github.com/chazu/cratekit/pkg/graph"
	"github.com/chazu/cratekit/pkg/tessellate"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.WithError(err).Error("boxgen failed")
		os.Exit(1)
	}
}

// formFlags are the flags that map one-to-one onto form fields.
var formFlags = []string{
	form.Width, form.Height, form.Depth,
	form.Angle, form.Style, form.Orientation,
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("boxgen", flag.ContinueOnError)
	fs.SetOutput(stdout)

	// Field flags are registered as strings so form.Set does the parsing
	// and only flags given on the command line override the config.
	for _, name := range formFlags {
		fs.String(name, "", fmt.Sprintf("%s field (default from config)", name))
	}
	cfgPath := fs.String("config", config.DefaultPath, "path to YAML config")
	stlPath := fs.String("stl", "", "write the box as binary STL to this path")
	verbose := fs.Bool("v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyLogging(); err != nil {
		return err
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	f := form.New(graph.New(), cfg.Form)
	var setErr error
	fs.Visit(func(fl *flag.Flag) {
		if setErr != nil {
			return
		}
		for _, name := range formFlags {
			if fl.Name == name {
				setErr = f.Set(name, fl.Value.String())
			}
		}
	})
	if setErr != nil {
		return setErr
	}

	res, err := f.Apply()
	if err != nil {
		return err
	}
	scene := f.Scene()

	fmt.Fprintf(stdout, "thickness %.4g\n", res.Thickness)
	scene.Walk(res.Root, func(n *graph.Node, depth int) bool {
		fmt.Fprintf(stdout, "%s%s (%s)\n", strings.Repeat("  ", depth), n.Name, n.Kind)
		return true
	})

	if *stlPath == "" {
		return nil
	}
	k := cfg.NewKernel()
	meshes, err := tessellate.Tessellate(scene, res.Root, k)
	if err != nil {
		return fmt.Errorf("tessellate: %w", err)
	}
	return export.SaveSTL(k, *stlPath, meshes)
}
