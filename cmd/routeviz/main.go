package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"routeviz/internal/feed"
	"routeviz/internal/log"
	"routeviz/internal/projection"
	"routeviz/internal/route"
	"routeviz/internal/scene"
	"routeviz/internal/settings"
	"routeviz/internal/surface"
	"routeviz/internal/tui"
)

const usage = `usage: routeviz [-log-level level] [-log-dir dir] <command> [args]

commands:
  render  [-o out] [-format svg|json|msgpack] [-config cfg.yaml] [-width w] [-height h] files...
  export  [-o paths.geojson] file
  schema
  view    [-config cfg.yaml] [file]
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "routeviz:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("routeviz", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	level := fs.String("log-level", "info", "log level: debug, info, warn, error")
	dir := fs.String("log-dir", "", "directory for routeviz.slog (default: user config dir)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w\n%s", err, usage)
	}
	if fs.NArg() == 0 {
		return errors.New(usage)
	}

	lg := log.New(*level, *dir)
	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "render":
		return runRender(ctx, rest, stdout, lg)
	case "export":
		return runExport(rest, stdout, lg)
	case "schema":
		data, err := settings.SchemaJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, string(data))
		return err
	case "view":
		return runView(rest, lg)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func loadConfig(path string) (settings.StyleConfig, error) {
	if path == "" {
		return settings.Defaults(), nil
	}
	return settings.Load(path)
}

// formatFor picks the output format from an explicit flag or the output
// file's extension.
func formatFor(format, out string) (string, error) {
	if format == "" {
		switch {
		case strings.HasSuffix(out, ".json"):
			format = "json"
		case strings.HasSuffix(out, ".msgpack.zst"), strings.HasSuffix(out, ".msgpack"):
			format = "msgpack"
		default:
			format = "svg"
		}
	}
	switch format {
	case "svg", "json", "msgpack":
		return format, nil
	}
	return "", fmt.Errorf("unknown format %q", format)
}

func newSurface(format string, w io.Writer) scene.Surface {
	switch format {
	case "json":
		return surface.NewJSON(w)
	case "msgpack":
		return surface.NewMsgpack(w)
	default:
		return surface.NewSVG(w)
	}
}

func extFor(format string) string {
	if format == "msgpack" {
		return ".msgpack.zst"
	}
	return "." + format
}

func runRender(ctx context.Context, args []string, stdout io.Writer, lg *log.Logger) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	out := fs.String("o", "", "output file, or directory when rendering several inputs (default: stdout)")
	format := fs.String("format", "", "svg, json or msgpack (default: from -o extension)")
	cfgPath := fs.String("config", "", "YAML style configuration")
	width := fs.Float64("width", 800, "viewport width")
	height := fs.Float64("height", 600, "viewport height")
	if err := fs.Parse(args); err != nil {
		return err
	}
	inputs := fs.Args()
	if len(inputs) == 0 {
		return errors.New("render: no input files")
	}
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	f, err := formatFor(*format, *out)
	if err != nil {
		return err
	}
	vp := projection.Viewport{Width: *width, Height: *height}

	if len(inputs) == 1 && !isDir(*out) {
		if *out == "" {
			return renderFile(inputs[0], f, stdout, cfg, vp, lg)
		}
		return renderTo(inputs[0], *out, f, cfg, vp, lg)
	}

	if *out == "" {
		return errors.New("render: -o directory required for several inputs")
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())
	for _, in := range inputs {
		in := in
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
			return renderTo(in, filepath.Join(*out, base+extFor(f)), f, cfg, vp, lg)
		})
	}
	return eg.Wait()
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func renderTo(in, out, format string, cfg settings.StyleConfig, vp projection.Viewport, lg *log.Logger) error {
	w, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := renderFile(in, format, w, cfg, vp, lg); err != nil {
		w.Close()
		return err
	}
	lg.Info("rendered", "input", in, "output", out)
	return w.Close()
}

func renderFile(in, format string, w io.Writer, cfg settings.StyleConfig, vp projection.Viewport, lg *log.Logger) error {
	t, err := feed.Load(in)
	if err != nil {
		return err
	}
	v := scene.NewVisual(newSurface(format, w), lg)
	defer v.Close()
	if err := v.Update(t, cfg, vp); err != nil {
		return fmt.Errorf("render %s: %w", filepath.Base(in), err)
	}
	return nil
}

func runExport(args []string, stdout io.Writer, lg *log.Logger) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	out := fs.String("o", "", "output GeoJSON file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("export: exactly one input file required")
	}
	t, err := feed.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	groups := route.Parse(t, lg)
	data, err := json.MarshalIndent(route.FeatureCollection(groups), "", "  ")
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	data = append(data, '\n')
	if *out == "" {
		_, err = stdout.Write(data)
		return err
	}
	lg.Info("exported", "input", fs.Arg(0), "output", *out, "paths", len(groups))
	return os.WriteFile(*out, data, 0o644)
}

func runView(args []string, lg *log.Logger) error {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfgPath := fs.String("config", "", "YAML style configuration")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		return err
	}
	var m tea.Model
	if fs.NArg() > 0 {
		m = tui.NewWithPath(fs.Arg(0), cfg, lg)
	} else {
		m = tui.New(cfg, lg)
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
