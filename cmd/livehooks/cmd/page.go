package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-drift/livehooks/pkg/bridge"
	"github.com/go-drift/livehooks/pkg/config"
	"github.com/go-drift/livehooks/pkg/dom"
	"github.com/go-drift/livehooks/pkg/hooks"
	"github.com/go-drift/livehooks/pkg/lifecycle"
	"github.com/go-drift/livehooks/pkg/loop"
	"github.com/go-drift/livehooks/pkg/resource"
)

// pageOptions are the flags shared by render and watch.
type pageOptions struct {
	input      string
	output     string
	configPath string
}

func parsePageArgs(args []string) (pageOptions, error) {
	var opts pageOptions
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-o" || arg == "--output":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%s requires a file path", arg)
			}
			i++
			opts.output = args[i]
		case strings.HasPrefix(arg, "--output="):
			opts.output = strings.TrimPrefix(arg, "--output=")
		case arg == "-c" || arg == "--config":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%s requires a file path", arg)
			}
			i++
			opts.configPath = args[i]
		case strings.HasPrefix(arg, "--config="):
			opts.configPath = strings.TrimPrefix(arg, "--config=")
		case strings.HasPrefix(arg, "-") && arg != "-":
			return opts, fmt.Errorf("unknown flag %q", arg)
		default:
			if opts.input != "" {
				return opts, fmt.Errorf("unexpected argument %q", arg)
			}
			opts.input = arg
		}
	}
	if opts.input == "" {
		return opts, fmt.Errorf("an HTML file is required")
	}
	return opts, nil
}

func loadConfig(opts pageOptions) (*config.Config, error) {
	if opts.configPath != "" {
		return config.Load(opts.configPath)
	}
	if opts.input == "-" {
		return config.LoadOptional(".")
	}
	return config.LoadOptional(filepath.Dir(opts.input))
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// page is one mounted document with its widgets. The loop, bridge and
// tracker outlive reloads of the document.
type page struct {
	cfg      *config.Config
	registry *lifecycle.Registry
	loop     *loop.Loop
	channel  *bridge.Channel
	events   *bridge.Recorder
	tracker  *resource.Tracker

	doc  *dom.Document
	ctrl *lifecycle.Controller
}

func newPage(cfg *config.Config) *page {
	p := &page{
		cfg:      cfg,
		registry: hooks.NewRegistry(hooks.Options{}),
		loop:     loop.New(),
		channel:  bridge.NewChannel(),
		events:   &bridge.Recorder{},
		tracker:  resource.NewTracker(),
	}
	p.channel.Listen(func(msg bridge.Message) {
		p.events.Record(msg)
		logger.Debug("event", "hook", msg.Hook, "instance", msg.Instance, "event", msg.Event)
	})
	return p
}

// load replaces the document with markup and attaches its widgets.
func (p *page) load(markup []byte) error {
	doc, err := dom.Parse(bytes.NewReader(markup))
	if err != nil {
		return fmt.Errorf("failed to parse page: %w", err)
	}
	if p.ctrl != nil {
		p.ctrl.Close()
	}
	p.doc = doc
	p.doc.SetAlertFunc(func(msg string) { logger.Warn("alert", "message", msg) })
	p.ctrl = lifecycle.NewController(lifecycle.Options{
		Doc:      doc,
		Registry: p.registry,
		Config:   p.cfg,
		Bridge:   p.channel,
		Loop:     p.loop,
		Clock:    p.loop.Clock(),
		Logger:   logger,
		Tracker:  p.tracker,
	})
	p.ctrl.Sync()
	logger.Debug("page mounted", "hooks", len(p.ctrl.Instances()))
	return nil
}

// write renders the document to path, or stdout for "" and "-".
func (p *page) write(path string) error {
	if path == "" || path == "-" {
		return p.doc.Render(os.Stdout)
	}
	var buf bytes.Buffer
	if err := p.doc.Render(&buf); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (p *page) close() {
	if p.ctrl != nil {
		p.ctrl.Close()
		p.ctrl = nil
	}
	p.loop.Settle()
	p.loop.Close()
	p.channel.Close()
}
