package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	plugindomain "certflow/internal/modules/plugin/domain"
	"certflow/internal/modules/resolver/domain"
)

type fakeCatalog struct {
	entries []plugindomain.Entry
}

func (c *fakeCatalog) GetPlugins(step plugindomain.Step) []plugindomain.Descriptor {
	out := make([]plugindomain.Descriptor, 0)
	for _, e := range c.entries {
		if e.Descriptor.Step == step {
			out = append(out, e.Descriptor)
		}
	}
	return out
}

func (c *fakeCatalog) GetPlugin(step plugindomain.Step, name, subMode string) (plugindomain.Descriptor, bool) {
	for _, e := range c.entries {
		if e.Descriptor.Step == step && !e.Descriptor.Hidden && e.Descriptor.Matches(name, subMode) {
			return e.Descriptor, true
		}
	}
	return plugindomain.Descriptor{}, false
}

func (c *fakeCatalog) Factory(d plugindomain.Descriptor, scope plugindomain.Scope) plugindomain.Factory {
	for _, e := range c.entries {
		if e.Descriptor.ID == d.ID && e.New != nil {
			return e.New(scope)
		}
	}
	return plugindomain.DisabledFactory{Reason: "Not found"}
}

func enabled(plugindomain.Scope) plugindomain.Factory { return plugindomain.EnabledFactory{} }

func nullFactory(plugindomain.Scope) plugindomain.Factory { return plugindomain.NullFactory{} }

func disabledBecause(reason string) plugindomain.FactoryFunc {
	return func(plugindomain.Scope) plugindomain.Factory { return plugindomain.DisabledFactory{Reason: reason} }
}

type validatorFactory struct {
	plugindomain.EnabledFactory
	wildcard bool
}

func (f validatorFactory) CanValidate(t plugindomain.Target) bool { return f.wildcard || !t.HasWildcard() }

func validator(wildcard bool) plugindomain.FactoryFunc {
	return func(plugindomain.Scope) plugindomain.Factory { return validatorFactory{wildcard: wildcard} }
}

type installerFactory struct {
	plugindomain.EnabledFactory
	allowed bool
	reason  string
}

func (f installerFactory) CanInstall([]string, []string) (bool, string) { return f.allowed, f.reason }

func entry(id, name string, step plugindomain.Step, order int, factory plugindomain.FactoryFunc) plugindomain.Entry {
	return plugindomain.Entry{
		Descriptor: plugindomain.Descriptor{ID: id, Name: name, Step: step, Order: order, Description: name + " plugin"},
		New:        factory,
	}
}

func nullEntry(id string, step plugindomain.Step) plugindomain.Entry {
	e := entry(id, "none", step, 100, nullFactory)
	e.Descriptor.Null = true
	return e
}

type prompt struct {
	text     string
	choices  []domain.Choice
	optional bool
	abort    string
}

// fakeConsole answers prompts from a script; a negative answer aborts.
type fakeConsole struct {
	mu      sync.Mutex
	answers []int
	prompts []prompt
	shown   []string
	spaces  int
}

func (c *fakeConsole) CreateSpace() { c.spaces++ }

func (c *fakeConsole) Show(_ string, value string) { c.shown = append(c.shown, value) }

func (c *fakeConsole) next() (int, error) {
	if len(c.answers) == 0 {
		return 0, fmt.Errorf("unexpected prompt")
	}
	answer := c.answers[0]
	c.answers = c.answers[1:]
	return answer, nil
}

func (c *fakeConsole) ChooseOptional(_ context.Context, text string, choices []domain.Choice, abort string) (int, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt{text: text, choices: choices, optional: true, abort: abort})
	answer, err := c.next()
	if err != nil {
		return 0, false, err
	}
	if answer < 0 {
		return 0, false, nil
	}
	return answer, true, nil
}

func (c *fakeConsole) ChooseRequired(_ context.Context, text string, choices []domain.Choice) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt{text: text, choices: choices})
	return c.next()
}

func (c *fakeConsole) labels(i int) []string {
	out := make([]string, 0, len(c.prompts[i].choices))
	for _, choice := range c.prompts[i].choices {
		out = append(out, choice.Label)
	}
	return out
}

func (c *fakeConsole) defaultLabel(i int) string {
	for _, choice := range c.prompts[i].choices {
		if choice.Default {
			return choice.Label
		}
	}
	return ""
}

type logLine struct {
	level string
	msg   string
}

type recordingLogger struct {
	lines []logLine
}

func (l *recordingLogger) add(level string, msg interface{}) {
	l.lines = append(l.lines, logLine{level: level, msg: fmt.Sprint(msg)})
}

func (l *recordingLogger) Debug(msg interface{}, _ ...interface{}) { l.add("debug", msg) }
func (l *recordingLogger) Warn(msg interface{}, _ ...interface{})  { l.add("warn", msg) }
func (l *recordingLogger) Error(msg interface{}, _ ...interface{}) { l.add("error", msg) }

func (l *recordingLogger) count(level string) int {
	n := 0
	for _, line := range l.lines {
		if line.level == level {
			n++
		}
	}
	return n
}

func (l *recordingLogger) contains(level, fragment string) bool {
	for _, line := range l.lines {
		if line.level == level && strings.Contains(line.msg, fragment) {
			return true
		}
	}
	return false
}

func mustTarget(hosts ...string) plugindomain.Target {
	t, err := plugindomain.NewTarget("", hosts...)
	if err != nil {
		panic(err)
	}
	return t
}
