package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/go-drift/livehooks/pkg/dom"
	"github.com/go-drift/livehooks/pkg/loop"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 150 * time.Millisecond

func init() {
	RegisterCommand(&Command{
		Name:  "watch",
		Short: "Re-render the page every time it changes",
		Long: `Render the page like "livehooks render", then keep the widgets
attached and watch the file.

When only data-* attributes of hook elements changed, the affected widgets
receive an update, exactly as a server patch would deliver it. Any other
change to the set of hook elements remounts the page.

Flags:
  -o, --output FILE   Write to FILE instead of stdout
  -c, --config FILE   Read settings from FILE (.yaml, .yml or .toml)

Press Ctrl+C to stop.`,
		Usage: "livehooks watch <page.html> [-o FILE] [-c FILE]",
		Run:   runWatch,
	})
}

func runWatch(args []string) error {
	opts, err := parsePageArgs(args)
	if err != nil {
		return err
	}
	if opts.input == "-" {
		return fmt.Errorf("watch needs a file, not stdin")
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	markup, err := readInput(opts.input)
	if err != nil {
		return err
	}

	p := newPage(cfg)
	defer p.close()
	if err := p.load(markup); err != nil {
		return err
	}
	p.loop.Settle()
	if err := p.write(opts.output); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()
	// Watch the directory; editors often replace the file on save.
	abs, err := filepath.Abs(opts.input)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	logger.Info("watching", "file", opts.input)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := &watchSession{page: p, input: abs, output: opts.output}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.loop.Run(ctx)
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				p.loop.Dispatch(w.schedule)
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.Warn("watch error", "err", err)
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// watchSession is the state of a running watch. It is only touched on
// the page loop.
type watchSession struct {
	page    *page
	input   string
	output  string
	pending loop.Timer
}

func (w *watchSession) schedule() {
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = w.page.loop.Clock().AfterFunc(watchDebounce, func() {
		w.pending = nil
		if err := w.reload(); err != nil {
			logger.Error("reload failed", "err", err)
		}
	})
}

func (w *watchSession) reload() error {
	markup, err := os.ReadFile(w.input)
	if err != nil {
		if os.IsNotExist(err) {
			// Mid-rename; the Create event follows.
			return nil
		}
		return err
	}
	next, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return fmt.Errorf("failed to parse page: %w", err)
	}

	attr := w.page.cfg.Hooks.Attribute
	current := dom.QueryAll(w.page.doc.Root(), "["+attr+"]")
	incoming := next.Find("[" + attr + "]")
	if !sameHooks(attr, current, incoming) {
		logger.Info("hook elements changed, remounting")
		if err := w.page.load(markup); err != nil {
			return err
		}
		return w.page.write(w.output)
	}

	updated := 0
	for i, n := range current {
		if mergeDataset(n, incoming.Eq(i)) {
			w.page.ctrl.Update(n)
			updated++
		}
	}
	if updated == 0 {
		logger.Debug("no widget data changed")
		return nil
	}
	logger.Info("widgets updated", "count", updated)
	return w.page.write(w.output)
}

// sameHooks reports whether incoming declares the same hooks, in the same
// order, as current.
func sameHooks(attr string, current []*html.Node, incoming *goquery.Selection) bool {
	if len(current) != incoming.Length() {
		return false
	}
	for i, n := range current {
		name, _ := dom.Attr(n, attr)
		other := incoming.Eq(i)
		if v, _ := other.Attr(attr); v != name {
			return false
		}
		id, _ := dom.Attr(n, "id")
		if v, _ := other.Attr("id"); v != id {
			return false
		}
	}
	return true
}

// mergeDataset copies the data-* attributes of src onto dst, dropping the
// ones src no longer has. It reports whether anything changed.
func mergeDataset(dst *html.Node, src *goquery.Selection) bool {
	if src.Length() == 0 {
		return false
	}
	changed := false
	want := map[string]bool{}
	for _, a := range src.Nodes[0].Attr {
		if !strings.HasPrefix(a.Key, "data-") {
			continue
		}
		want[a.Key] = true
		if v, ok := dom.Attr(dst, a.Key); !ok || v != a.Val {
			dom.SetAttr(dst, a.Key, a.Val)
			changed = true
		}
	}
	var stale []string
	for _, a := range dst.Attr {
		if strings.HasPrefix(a.Key, "data-") && !want[a.Key] {
			stale = append(stale, a.Key)
		}
	}
	for _, key := range stale {
		dom.RemoveAttr(dst, key)
		changed = true
	}
	return changed
}
