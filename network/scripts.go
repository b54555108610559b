package network

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/chrisuehlinger/domsugar/css"
	"github.com/chrisuehlinger/domsugar/dom"
)

// Script is a classic script of a page, in document order.
type Script struct {
	Source   string // location for external scripts, "inline #n" otherwise
	Code     string
	Inline   bool
	Position int // index among the page's script elements
}

// PageScripts collects the classic scripts of doc in document order.
// External scripts load through l. Module scripts and non-JavaScript types
// are skipped. Scripts that fail to load are left out and their errors
// combined into the returned error.
func PageScripts(ctx context.Context, l *Loader, doc *dom.Document) ([]Script, error) {
	if doc == nil {
		return nil, nil
	}
	elements, err := css.QuerySelectorAll(doc.AsNode(), "script")
	if err != nil {
		return nil, err
	}

	var (
		scripts []Script
		errs    error
	)
	for i, el := range elements {
		if !isClassicScript(el.GetAttribute("type")) {
			l.logger.Debug("skipping script",
				zap.Int("position", i),
				zap.String("type", el.GetAttribute("type")),
			)
			continue
		}

		src := strings.TrimSpace(el.GetAttribute("src"))
		if src == "" {
			scripts = append(scripts, Script{
				Source:   fmt.Sprintf("inline #%d", i),
				Code:     el.TextContent(),
				Inline:   true,
				Position: i,
			})
			continue
		}

		res, err := l.Load(ctx, src)
		if err == nil {
			var code string
			if code, err = res.Text(); err == nil {
				scripts = append(scripts, Script{Source: res.Location, Code: code, Position: i})
				continue
			}
		}
		l.logger.Warn("script failed to load", zap.String("src", src), zap.Error(err))
		errs = multierr.Append(errs, err)
	}
	return scripts, errs
}

func isClassicScript(scriptType string) bool {
	switch strings.ToLower(strings.TrimSpace(scriptType)) {
	case "", "text/javascript", "application/javascript", "application/x-javascript", "text/ecmascript":
		return true
	}
	return false
}
