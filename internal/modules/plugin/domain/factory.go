package domain

// Factory reports whether a plugin can run at all in the current scope,
// independent of any particular target.
type Factory interface {
	Disabled() (bool, string)
}

// Validator is implemented by validation factories that can reject a target.
type Validator interface {
	CanValidate(target Target) bool
}

// Splitter is implemented by order factories that can reject a target.
type Splitter interface {
	CanProcess(target Target) bool
}

// Installer is implemented by installation factories whose eligibility
// depends on the stores and installation steps chosen before them.
type Installer interface {
	CanInstall(stores []string, installs []string) (bool, string)
}

// Scope carries the runtime facts factories are instantiated with.
type Scope struct {
	OS       string
	Elevated bool
}

type FactoryFunc func(scope Scope) Factory

// Entry binds a descriptor to the function producing its factory.
type Entry struct {
	Descriptor Descriptor
	New        FactoryFunc
}

// FactoryContext pairs a descriptor with its instantiated factory for the
// duration of one resolution call.
type FactoryContext struct {
	Descriptor Descriptor
	Factory    Factory
}

func NewFactoryContext(descriptor Descriptor, factory Factory) FactoryContext {
	if factory == nil {
		factory = EnabledFactory{}
	}
	return FactoryContext{Descriptor: descriptor, Factory: factory}
}

func (c FactoryContext) Disabled() (bool, string) {
	return c.Factory.Disabled()
}

// IsNull reports whether the context wraps the no-op sentinel.
func (c FactoryContext) IsNull() bool {
	if c.Descriptor.Null {
		return true
	}
	_, ok := c.Factory.(NullFactory)
	return ok
}

type EnabledFactory struct{}

func (EnabledFactory) Disabled() (bool, string) { return false, "" }

// NullFactory backs the no-op store and installation plugins.
type NullFactory struct{}

func (NullFactory) Disabled() (bool, string) { return false, "" }

// DisabledFactory is statically unusable for a fixed reason.
type DisabledFactory struct {
	Reason string
}

func (f DisabledFactory) Disabled() (bool, string) { return true, f.Reason }
