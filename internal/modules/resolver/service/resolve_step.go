package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	plugindomain "certflow/internal/modules/plugin/domain"
	"certflow/internal/modules/resolver/domain"
	resolverout "certflow/internal/modules/resolver/port/out"
)

const abortLabel = "Abort"

// stepRequest describes one interactive selection. Nil strategies fall back
// to the defaults in withDefaults.
type stepRequest struct {
	step         plugindomain.Step
	className    string
	defaultID    string
	fallbackID   string
	overrideName string
	overrideSub  string
	prompt       string
	guidance     string
	allowAbort   bool

	filter   func([]plugindomain.FactoryContext) []plugindomain.FactoryContext
	sort     func([]plugindomain.FactoryContext) []plugindomain.FactoryContext
	unusable func(plugindomain.FactoryContext) domain.Verdict
	label    func(plugindomain.FactoryContext) string
}

func (r stepRequest) withDefaults() stepRequest {
	if r.filter == nil {
		r.filter = excludeNull
	}
	if r.sort == nil {
		r.sort = byOrderThenDescription
	}
	if r.unusable == nil {
		r.unusable = func(plugindomain.FactoryContext) domain.Verdict { return domain.Verdict{} }
	}
	if r.label == nil {
		r.label = func(c plugindomain.FactoryContext) string { return c.Descriptor.Description }
	}
	return r
}

type candidate struct {
	context plugindomain.FactoryContext
	verdict domain.Verdict
}

func excludeNull(items []plugindomain.FactoryContext) []plugindomain.FactoryContext {
	out := make([]plugindomain.FactoryContext, 0, len(items))
	for _, item := range items {
		if !item.IsNull() {
			out = append(out, item)
		}
	}
	return out
}

func keepAll(items []plugindomain.FactoryContext) []plugindomain.FactoryContext {
	return items
}

func byOrderThenDescription(items []plugindomain.FactoryContext) []plugindomain.FactoryContext {
	out := append([]plugindomain.FactoryContext(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Descriptor, out[j].Descriptor
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Description < b.Description
	})
	return out
}

// usability merges the static disabled state with the step predicate;
// the static reason wins.
func usability(c plugindomain.FactoryContext, dynamic func(plugindomain.FactoryContext) domain.Verdict) domain.Verdict {
	if disabled, reason := c.Disabled(); disabled {
		return domain.Verdict{Unusable: true, Reason: reason}
	}
	if dynamic == nil {
		return domain.Verdict{}
	}
	return dynamic(c)
}

// stepCore holds what every resolution call needs.
type stepCore struct {
	catalog  resolverout.Catalog
	console  resolverout.Console
	log      resolverout.Logger
	scope    plugindomain.Scope
	runLevel domain.RunLevel
}

func (c stepCore) candidates(step plugindomain.Step) []plugindomain.FactoryContext {
	out := make([]plugindomain.FactoryContext, 0)
	for _, d := range c.catalog.GetPlugins(step) {
		if d.Hidden || d.Step != step {
			continue
		}
		out = append(out, plugindomain.NewFactoryContext(d, c.catalog.Factory(d, c.scope)))
	}
	return out
}

func (c stepCore) warnUnavailable(className string, name string, reason string) {
	c.log.Warn(fmt.Sprintf("%s plugin %s not available: %s", titleCase(className), name, reason), "step", className)
}

func (c stepCore) errorNotFound(className string, name string) {
	c.log.Error(fmt.Sprintf("Unable to find %s plugin %s", className, name), "step", className)
}

// resolveStep returns the chosen descriptor, or nil when the step has no
// usable option or the operator aborted.
func (c stepCore) resolveStep(ctx context.Context, req stepRequest) (*plugindomain.Descriptor, error) {
	req = req.withDefaults()
	options := req.sort(req.filter(c.candidates(req.step)))
	items := make([]candidate, 0, len(options))
	allUnusable, allNull := true, true
	for _, option := range options {
		verdict := usability(option, req.unusable)
		if !verdict.Unusable {
			allUnusable = false
		}
		if !option.IsNull() {
			allNull = false
		}
		items = append(items, candidate{context: option, verdict: verdict})
	}
	if len(items) == 0 || allUnusable || allNull {
		c.log.Debug("no selectable plugin", "step", req.className)
		return nil, nil
	}

	showMenu := c.runLevel.Has(domain.RunLevelAdvanced)
	defaultID := req.defaultID
	if strings.TrimSpace(req.overrideName) != "" {
		if d, ok := c.catalog.GetPlugin(req.step, req.overrideName, req.overrideSub); ok {
			defaultID = d.ID
		} else {
			c.errorNotFound(req.className, req.overrideName)
			showMenu = true
		}
	}

	def, found := findCandidate(items, defaultID)
	if !found || def.verdict.Unusable {
		name, reason := defaultID, "Not found"
		if found {
			name, reason = def.context.Descriptor.Name, def.verdict.Reason
		}
		c.warnUnavailable(req.className, name, reason)
		defaultID = req.fallbackID
		showMenu = true
	}
	if !showMenu {
		d := def.context.Descriptor
		return &d, nil
	}

	if req.guidance != "" {
		c.console.CreateSpace()
		c.console.Show("", req.guidance)
	}
	toChoice := func(item candidate) domain.Choice {
		return domain.Choice{
			Label:          req.label(item.context),
			Default:        item.context.Descriptor.ID == defaultID && !item.verdict.Unusable,
			Disabled:       item.verdict.Unusable,
			DisabledReason: item.verdict.Reason,
		}
	}
	var picked candidate
	if req.allowAbort {
		var ok bool
		var err error
		picked, ok, err = chooseOptional(ctx, c.console, req.prompt, items, toChoice, abortLabel)
		if err != nil || !ok {
			return nil, err
		}
	} else {
		var err error
		picked, err = chooseRequired(ctx, c.console, req.prompt, items, toChoice)
		if err != nil {
			return nil, err
		}
	}
	d := picked.context.Descriptor
	return &d, nil
}

func findCandidate(items []candidate, id string) (candidate, bool) {
	for _, item := range items {
		if item.context.Descriptor.ID == id {
			return item, true
		}
	}
	return candidate{}, false
}

func titleCase(value string) string {
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
