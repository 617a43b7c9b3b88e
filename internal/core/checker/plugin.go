package checker

import "plugin"

// pluginSymbol is the exported name a checker plugin must provide.
const pluginSymbol = "Checker"

type pluginChecker struct {
	path    string
	compare func(actual, expected []string) bool
}

func (c *pluginChecker) ID() string { return c.path }

func (c *pluginChecker) Compare(actual, expected []string) bool {
	return c.compare(actual, expected)
}

// loadPlugin opens a Go plugin and binds its Checker symbol. Every failure
// is a LoadError so resolution dies loudly instead of degrading to the
// default comparison.
func loadPlugin(path string) (Checker, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "cannot open plugin", Cause: err}
	}
	sym, err := p.Lookup(pluginSymbol)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "plugin does not export Checker", Cause: err}
	}
	switch fn := sym.(type) {
	case func([]string, []string) bool:
		return &pluginChecker{path: path, compare: fn}, nil
	case *func([]string, []string) bool:
		return &pluginChecker{path: path, compare: *fn}, nil
	default:
		return nil, &LoadError{Path: path, Message: "Checker must be func([]string, []string) bool"}
	}
}
