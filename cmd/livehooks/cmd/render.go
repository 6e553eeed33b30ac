package cmd

func init() {
	RegisterCommand(&Command{
		Name:  "render",
		Short: "Attach every widget once and write the page",
		Long: `Parse an HTML page, attach the widget of every phx-hook element and
write the page as the widgets left it.

Charts are drawn in place (SVG for line and bar charts, a PNG image for
heatmaps, SVG for word clouds). Elements whose data attribute is missing
or malformed render their empty state and a warning is logged.

Flags:
  -o, --output FILE   Write to FILE instead of stdout
  -c, --config FILE   Read settings from FILE (.yaml, .yml or .toml)

Use "-" as the page to read from stdin.`,
		Usage: "livehooks render <page.html> [-o FILE] [-c FILE]",
		Run:   runRender,
	})
}

func runRender(args []string) error {
	opts, err := parsePageArgs(args)
	if err != nil {
		return err
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
	logger.Info("page rendered",
		"hooks", len(p.ctrl.Instances()),
		"resources", p.tracker.Total(),
		"events", len(p.events.Messages()))
	return nil
}
