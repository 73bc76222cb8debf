// Command shaderbox is a live WGSL playground: edit a fragment shader in any editor and watch the
// preview window follow every save.
//
// Usage:
//
//	shaderbox [run] [flags]        open the preview for -shader (default shader.wgsl)
//	shaderbox check <file>         compile a shader once and report diagnostics
//	shaderbox init [-force] <file> write the default shader to start from
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/Carmen-Shannon/oxy-shaderbox/engine"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/config"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/editor"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/logger"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-shaderbox/engine/window"
)

func init() {
	// GLFW calls must come from the main thread.
	runtime.LockOSThread()
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := "run"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}
	switch cmd {
	case "run":
		return runPlayground(args, stdout, stderr)
	case "check":
		return runCheck(args, stdout, stderr)
	case "init":
		return runInit(args, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q (want run, check or init)\n", cmd)
		return 2
	}
}

func runPlayground(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	var flags config.Config
	flags.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}
	cfg = cfg.Merge(flags)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	level, _ := cfg.SlogLevel()
	logger.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	bt, rendererOptions, err := cfg.RendererOptions()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	backend, err := renderer.NewBackend(bt, rendererOptions...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	options := []engine.EngineBuilderOption{
		engine.WithBackend(backend),
		engine.WithTitle(cfg.Window.Title),
		engine.WithSize(cfg.Window.Width, cfg.Window.Height),
		engine.WithShaderPath(cfg.Shader.Path),
		engine.WithDebounce(cfg.Shader.Debounce),
		engine.WithRefreshRate(cfg.Render.RefreshRate),
		engine.WithProfiling(cfg.Render.Profile),
		engine.WithLogFeed(stdout, cfg.Log.Capacity, cfg.Log.ClearScreen),
	}
	if bt == renderer.BackendTypeWGPU {
		w, err := window.NewWindow(
			window.WithTitle(cfg.Window.Title),
			window.WithSize(cfg.Window.Width, cfg.Window.Height),
		)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		options = append(options, engine.WithWindow(w))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := engine.NewEngine(options...).Run(ctx); err != nil {
		fmt.Fprintf(stderr, "shaderbox: %v\n", err)
		return 1
	}
	return 0
}

func runCheck(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: shaderbox check <file>")
		return 2
	}

	path := fs.Arg(0)
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if _, err := shader.Check(string(src)); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", path, err)
		return 1
	}
	fmt.Fprintf(stdout, "%s: ok\n", path)
	return 0
}

func runInit(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(stderr)
	force := fs.Bool("force", false, "overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	path := "shader.wgsl"
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	if err := editor.Create(path, shader.DefaultFragmentSource, *force); err != nil {
		if errors.Is(err, os.ErrExist) {
			fmt.Fprintf(stderr, "%s already exists, use -force to replace it\n", path)
			return 1
		}
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "wrote %s\n", path)
	return 0
}
