package feature

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Boolean models a binary observed feature: Beta-distributed success
// probabilities per component under shared Gamma hyperpriors, observed
// through a Bernoulli.
type Boolean struct {
	name string
}

var _ Feature = (*Boolean)(nil)

// NewBoolean creates a Boolean feature with the given name.
func NewBoolean(name string) *Boolean {
	return &Boolean{name: name}
}

// Name implements Feature.
func (f *Boolean) Name() string { return f.name }

func (f *Boolean) String() string {
	return fmt.Sprintf("Boolean(%q)", f.name)
}

type booleanShared struct {
	alpha float64
	beta  float64
}

type booleanGroup struct {
	probs []float64
}

// SampleShared implements Feature.
func (f *Boolean) SampleShared(src rand.Source) Shared {
	hyper := distuv.Gamma{Alpha: 0.5, Beta: 1, Src: src}
	return booleanShared{
		alpha: hyper.Rand(),
		beta:  hyper.Rand(),
	}
}

// SampleGroup implements Feature.
func (f *Boolean) SampleGroup(src rand.Source, shared Shared, components int) (Group, error) {
	s, ok := shared.(booleanShared)
	if !ok {
		return nil, fmt.Errorf("%s: shared parameters have wrong type %T", f, shared)
	}

	prior := distuv.Beta{Alpha: s.alpha, Beta: s.beta, Src: src}
	probs := make([]float64, components)
	for i := range probs {
		probs[i] = prior.Rand()
	}
	return booleanGroup{probs: probs}, nil
}

// ValueDist implements Feature.
func (f *Boolean) ValueDist(src rand.Source, group Group, component int) (Dist, error) {
	g, ok := group.(booleanGroup)
	if !ok {
		return nil, fmt.Errorf("%s: group parameters have wrong type %T", f, group)
	}
	if component < 0 || component >= len(g.probs) {
		return nil, fmt.Errorf("%s: component %d out of range [0,%d)", f, component, len(g.probs))
	}
	return distuv.Bernoulli{P: g.probs[component], Src: src}, nil
}
