package completion

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Candidates returns completions for the whole line. The first match that
// extends the line is shown as an inline hint.
type Candidates interface {
	Match(line string) []string
}

// Suggestions returns the ordered list cycled through with Tab.
type Suggestions interface {
	Suggest(line string) []string
}

// Func adapts a plain function to both Candidates and Suggestions.
type Func func(line string) []string

func (f Func) Match(line string) []string   { return f(line) }
func (f Func) Suggest(line string) []string { return f(line) }

// Basic matches a fixed list of options by prefix, keeping their order.
type Basic struct {
	options []string
}

// NewBasic returns a Basic source over options. Duplicates are dropped.
func NewBasic(options ...string) *Basic {
	return &Basic{options: lo.Uniq(options)}
}

// Options returns the configured options.
func (b *Basic) Options() []string {
	return append([]string(nil), b.options...)
}

// Match returns the options that start with line and are longer than it.
// An empty line matches nothing.
func (b *Basic) Match(line string) []string {
	if line == "" {
		return nil
	}
	return lo.Filter(b.options, func(opt string, _ int) bool {
		return strings.HasPrefix(opt, line) && opt != line
	})
}

// Suggest is Match, except that an empty line lists every option.
func (b *Basic) Suggest(line string) []string {
	if line == "" {
		return b.Options()
	}
	return b.Match(line)
}

// Commands suggests command names written after a leader such as ":".
type Commands struct {
	leader string
	names  func() []string
}

// NewCommands returns a source for leader-prefixed commands. names is
// called on every query so that the list can change at runtime.
func NewCommands(leader string, names func() []string) *Commands {
	return &Commands{leader: leader, names: names}
}

func (c *Commands) Leader() string {
	return c.leader
}

// Match returns sorted commands extending line. Nothing is offered for the
// bare leader or once an argument has started.
func (c *Commands) Match(line string) []string {
	if !strings.HasPrefix(line, c.leader) || line == c.leader || strings.Contains(line, " ") {
		return nil
	}

	var out []string
	for _, name := range c.names() {
		full := c.leader + name
		if strings.HasPrefix(full, line) && full != line {
			out = append(out, full)
		}
	}
	sort.Strings(out)
	return out
}

// Suggest lists every command for the bare leader and otherwise matches.
func (c *Commands) Suggest(line string) []string {
	if line == c.leader {
		all := lo.Map(c.names(), func(name string, _ int) string { return c.leader + name })
		sort.Strings(all)
		return all
	}
	return c.Match(line)
}

// Prefixed is implemented by sources that only answer for lines starting
// with a fixed leader.
type Prefixed interface {
	Leader() string
}

// Source is a value usable as both kinds of completion source.
type Source interface {
	Candidates
	Suggestions
}

// Router dispatches to the source registered for the longest leader the
// line starts with, then to the sources registered without a leader.
type Router struct {
	prefixed map[string]Source
	general  []Source
}

func NewRouter() *Router {
	return &Router{prefixed: make(map[string]Source)}
}

// Register adds src. Sources implementing Prefixed are routed by leader.
func (r *Router) Register(src Source) {
	if p, ok := src.(Prefixed); ok && p.Leader() != "" {
		r.prefixed[p.Leader()] = src
		return
	}
	r.general = append(r.general, src)
}

func (r *Router) Match(line string) []string {
	return r.query(line, Source.Match)
}

func (r *Router) Suggest(line string) []string {
	return r.query(line, Source.Suggest)
}

func (r *Router) query(line string, ask func(Source, string) []string) []string {
	leader := ""
	for l := range r.prefixed {
		if strings.HasPrefix(line, l) && len(l) > len(leader) {
			leader = l
		}
	}
	if leader != "" {
		return ask(r.prefixed[leader], line)
	}

	var out []string
	for _, src := range r.general {
		out = append(out, ask(src, line)...)
	}
	return lo.Uniq(out)
}
