package condition

import (
	"sort"

	"eventhub/pkg/errutil"
)

// Registry is the immutable condition-type dispatch table, built once at
// startup. An unknown tag is a deployment problem and surfaces as a
// 500-class configuration error.
type Registry struct {
	validators map[string]Validator
}

func NewRegistry(validators map[string]Validator) *Registry {
	table := make(map[string]Validator, len(validators))
	for tag, v := range validators {
		table[tag] = v
	}
	return &Registry{validators: table}
}

func (r *Registry) Get(conditionType string) (Validator, error) {
	v, ok := r.validators[conditionType]
	if !ok {
		return nil, errutil.UnsupportedCondition(conditionType)
	}
	return v, nil
}

func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.validators))
	for tag := range r.validators {
		types = append(types, tag)
	}
	sort.Strings(types)
	return types
}
