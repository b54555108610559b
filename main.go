// Command domsugar loads an HTML page, runs its scripts and an optional
// extra script with the DOM sugar installed, and dispatches events on
// request. Pages and scripts may be file paths, file:, data: or http(s)
// URLs.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/domsugar/config"
	"github.com/chrisuehlinger/domsugar/css"
	"github.com/chrisuehlinger/domsugar/dom"
	"github.com/chrisuehlinger/domsugar/events"
	"github.com/chrisuehlinger/domsugar/html"
	"github.com/chrisuehlinger/domsugar/js"
	"github.com/chrisuehlinger/domsugar/network"
	"github.com/chrisuehlinger/domsugar/query"
)

// dispatchFlags collects repeated -dispatch type@selector values.
type dispatchFlags []string

func (d *dispatchFlags) String() string { return strings.Join(*d, ",") }

func (d *dispatchFlags) Set(v string) error {
	if _, _, err := parseDispatch(v); err != nil {
		return err
	}
	*d = append(*d, v)
	return nil
}

func parseDispatch(spec string) (eventType, selector string, err error) {
	eventType, selector, ok := strings.Cut(spec, "@")
	eventType, selector = strings.TrimSpace(eventType), strings.TrimSpace(selector)
	if !ok || eventType == "" || selector == "" {
		return "", "", errors.Errorf("dispatch %q: want type@selector", spec)
	}
	return eventType, selector, nil
}

// options are the command-line inputs of one run.
type options struct {
	html       string
	script     string
	dispatches []string
	dump       io.Writer // receives the final document when set
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("domsugar", flag.ContinueOnError)
	fs.SetOutput(stderr)
	htmlPath := fs.String("html", "", "Location of the HTML page")
	scriptPath := fs.String("script", "", "Location of a script to run after the page's own scripts")
	configPath := fs.String("config", "", "Path to a YAML config file")
	var dispatches dispatchFlags
	fs.Var(&dispatches, "dispatch", "Event to dispatch after loading, as type@selector (repeatable)")
	dump := fs.Bool("dump", false, "Write the final document to stdout")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: domsugar -html page.html [-script app.js] [-config domsugar.yaml] [-dispatch click@#save]... [-dump]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *htmlPath == "" {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := options{html: *htmlPath, script: *scriptPath, dispatches: dispatches}
	if *dump {
		opts.dump = stdout
	}
	if err := execute(ctx, cfg, logger, opts); err != nil {
		logger.Error("domsugar failed", zap.Error(err))
		return 1
	}
	return 0
}

func execute(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts options) error {
	client, err := network.NewClient(
		network.WithTimeout(cfg.Fetch.Timeout),
		network.WithUserAgent(cfg.Fetch.UserAgent),
	)
	if err != nil {
		return err
	}
	loader := network.NewLoader(client, network.WithLogger(logger))

	res, err := loader.Load(ctx, opts.html)
	if err != nil {
		return errors.Wrap(err, "load page")
	}
	page, err := res.Reader()
	if err != nil {
		return err
	}
	s, err := newSession(cfg, logger, page)
	if err != nil {
		return err
	}

	// Scripts that did load still run; load failures are reported with the
	// script errors once the run is complete.
	var loadErr error
	if cfg.Script.PageScripts {
		scripts, err := network.PageScripts(ctx, loader.WithBase(res.Location), s.doc)
		if err != nil {
			loadErr = errors.Wrap(err, "load page scripts")
		}
		for _, script := range scripts {
			s.runScript(script.Code, script.Source)
		}
	}
	if opts.script != "" {
		script, err := loader.Load(ctx, opts.script)
		if err != nil {
			return errors.Wrap(err, "load script")
		}
		code, err := script.Text()
		if err != nil {
			return err
		}
		s.runScript(code, script.Location)
	}

	if cfg.Script.FireReady {
		s.win.Load()
	}
	for _, spec := range opts.dispatches {
		if err := s.dispatch(spec); err != nil {
			return err
		}
	}
	if opts.dump != nil {
		if err := html.Render(opts.dump, s.doc.AsNode()); err != nil {
			return err
		}
		fmt.Fprintln(opts.dump)
	}
	return multierr.Append(loadErr, s.err())
}

// session is one loaded page with its script environment.
type session struct {
	logger  *zap.Logger
	doc     *dom.Document
	win     *dom.Window
	query   *query.Query
	runtime *js.Runtime
}

func newSession(cfg *config.Config, logger *zap.Logger, page io.Reader) (*session, error) {
	doc, err := html.ParseReader(page)
	if err != nil {
		return nil, err
	}
	win := dom.NewWindow(doc)

	binder, err := events.NewBinderFor(cfg.BackendMode(), doc, css.NewMatcher(), events.WithLogger(logger))
	if err != nil {
		return nil, errors.Wrap(err, "select event backend")
	}
	logger.Debug("event backend selected", zap.String("backend", binder.Backend().Name()))

	q := query.New(binder,
		query.WithReleaseOnRemove(cfg.Events.ReleaseOnRemove),
		query.WithLogger(logger),
	)
	rt := js.NewRuntime(logger)
	js.NewDOMBinder(rt, q).Install(win)

	return &session{
		logger:  logger,
		doc:     doc,
		win:     win,
		query:   q,
		runtime: rt,
	}, nil
}

// runScript runs code; failures are collected on the runtime.
func (s *session) runScript(code, src string) {
	if err := s.runtime.ExecuteScript(code, src); err != nil {
		return
	}
	s.logger.Debug("script finished",
		zap.String("script", src),
		zap.Int("targets", s.query.Binder().Targets()),
	)
}

// dispatch fires a bubbling, cancelable event on the first element matching
// the selector half of a type@selector value.
func (s *session) dispatch(spec string) error {
	eventType, selector, err := parseDispatch(spec)
	if err != nil {
		return err
	}
	el := s.query.Find(s.doc, selector).Item(0)
	if el == nil {
		s.logger.Warn("no element to dispatch on", zap.String("selector", selector))
		return nil
	}
	notCanceled := el.DispatchEvent(dom.NewEvent(eventType, dom.EventInit{Bubbles: true, Cancelable: true}))
	s.logger.Info("event dispatched",
		zap.String("type", eventType),
		zap.String("selector", selector),
		zap.Bool("defaultPrevented", !notCanceled),
	)
	return nil
}

func (s *session) err() error {
	errs := s.runtime.Errors()
	if len(errs) == 0 {
		return nil
	}
	return errors.Wrapf(errs[0], "%d script error(s), first", len(errs))
}
