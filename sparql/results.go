package sparql

// Results is the decoded form of an application/sparql-results+json response.
type Results struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []Binding `json:"bindings"`
	} `json:"results"`
}

// Binding maps a variable name to its bound value for one solution row.
type Binding map[string]BoundValue

type BoundValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Value returns the bound value for a variable, or "" when unbound.
func (b Binding) Value(variable string) string {
	return b[variable].Value
}

// Empty reports whether the result set contains no solutions.
func (r *Results) Empty() bool {
	return r == nil || len(r.Results.Bindings) == 0
}

// First returns the first solution row. Lookups that hit multiple rows take
// the first one deterministically; callers log the anomaly and move on.
func (r *Results) First() Binding {
	if r.Empty() {
		return Binding{}
	}
	return r.Results.Bindings[0]
}
