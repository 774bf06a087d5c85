package authority

// Scope selects which (model, term) declaration a binding or lookup targets.
// The zero value is AnyModel.
type Scope struct {
	model  string
	scoped bool
}

// AnyModel is the model-agnostic scope
func AnyModel() Scope {
	return Scope{}
}

// ForModel scopes to a single model name. An empty name is AnyModel.
func ForModel(name string) Scope {
	if name == "" {
		return AnyModel()
	}
	return Scope{model: name, scoped: true}
}

// ScopeOf maps an optional model name, as received from callers, to a Scope
func ScopeOf(model string) Scope {
	return ForModel(model)
}

// Model returns the model name and whether the scope is model-specific
func (s Scope) Model() (string, bool) {
	return s.model, s.scoped
}

// IsAny reports whether the scope applies to any model
func (s Scope) IsAny() bool {
	return !s.scoped
}

func (s Scope) String() string {
	if !s.scoped {
		return "any"
	}
	return "model:" + s.model
}
