package events

import "github.com/chrisuehlinger/domsugar/dom"

// Options are the capture/once/passive flags passed through to the backend.
type Options = dom.ListenerOptions

// ParseOptions converts the loose option forms accepted by On into Options.
// It accepts a bool (legacy useCapture), Options, *Options, or a map with
// the keys "capture", "once" and "passive". ok is false for anything else.
// Unknown map keys and non-bool values are ignored.
func ParseOptions(v any) (opts Options, ok bool) {
	switch o := v.(type) {
	case bool:
		return Options{Capture: o}, true
	case Options:
		return o, true
	case *Options:
		if o == nil {
			return Options{}, true
		}
		return *o, true
	case map[string]any:
		for key, val := range o {
			flag, isBool := val.(bool)
			if !isBool {
				continue
			}
			switch key {
			case "capture":
				opts.Capture = flag
			case "once":
				opts.Once = flag
			case "passive":
				opts.Passive = flag
			}
		}
		return opts, true
	}
	return Options{}, false
}

func mergeOptions(opts []Options) Options {
	var out Options
	for _, o := range opts {
		out.Capture = out.Capture || o.Capture
		out.Once = out.Once || o.Once
		out.Passive = out.Passive || o.Passive
	}
	return out
}
