package payout

import (
	"sort"

	"eventhub/pkg/errutil"
)

// Registry is the immutable reward-type dispatch table, built once at
// startup. Same contract as the condition registry: unknown tags are
// configuration errors.
type Registry struct {
	processors map[string]Processor
}

func NewRegistry(processors map[string]Processor) *Registry {
	table := make(map[string]Processor, len(processors))
	for tag, p := range processors {
		table[tag] = p
	}
	return &Registry{processors: table}
}

func (r *Registry) Get(rewardType string) (Processor, error) {
	p, ok := r.processors[rewardType]
	if !ok {
		return nil, errutil.UnsupportedReward(rewardType)
	}
	return p, nil
}

func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.processors))
	for tag := range r.processors {
		types = append(types, tag)
	}
	sort.Strings(types)
	return types
}
