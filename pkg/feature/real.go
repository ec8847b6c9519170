package feature

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Real models a real-valued observed feature with a Normal observation
// distribution per component. Component precisions are Gamma-distributed
// under shared hyperpriors and locations are centered on a shared draw,
// scaled by each component's own deviation.
type Real struct {
	name string
}

var _ Feature = (*Real)(nil)

// NewReal creates a Real feature with the given name.
func NewReal(name string) *Real {
	return &Real{name: name}
}

// Name implements Feature.
func (f *Real) Name() string { return f.name }

func (f *Real) String() string {
	return fmt.Sprintf("Real(%q)", f.name)
}

type realShared struct {
	locLoc     float64
	hyperScale float64
	scaleAlpha float64
	scaleBeta  float64
}

type realGroup struct {
	loc   []float64
	scale []float64
}

// SampleShared implements Feature.
func (f *Real) SampleShared(src rand.Source) Shared {
	gamma := distuv.Gamma{Alpha: 0.5, Beta: 1, Src: src}
	return realShared{
		locLoc:     distuv.Normal{Mu: 0, Sigma: 1, Src: src}.Rand(),
		hyperScale: distuv.LogNormal{Mu: 0, Sigma: 10, Src: src}.Rand(),
		scaleAlpha: gamma.Rand(),
		scaleBeta:  gamma.Rand(),
	}
}

// SampleGroup implements Feature.
func (f *Real) SampleGroup(src rand.Source, shared Shared, components int) (Group, error) {
	s, ok := shared.(realShared)
	if !ok {
		return nil, fmt.Errorf("%s: shared parameters have wrong type %T", f, shared)
	}

	precision := distuv.Gamma{Alpha: s.scaleAlpha, Beta: s.scaleBeta, Src: src}
	loc := make([]float64, components)
	scale := make([]float64, components)
	for i := 0; i < components; i++ {
		// scale = precision^(-1/2)
		scale[i] = math.Pow(precision.Rand(), -0.5)
		loc[i] = distuv.Normal{Mu: s.locLoc * scale[i], Sigma: scale[i], Src: src}.Rand()
	}
	return realGroup{loc: loc, scale: scale}, nil
}

// ValueDist implements Feature.
func (f *Real) ValueDist(src rand.Source, group Group, component int) (Dist, error) {
	g, ok := group.(realGroup)
	if !ok {
		return nil, fmt.Errorf("%s: group parameters have wrong type %T", f, group)
	}
	if component < 0 || component >= len(g.loc) {
		return nil, fmt.Errorf("%s: component %d out of range [0,%d)", f, component, len(g.loc))
	}
	return distuv.Normal{Mu: g.loc[component], Sigma: g.scale[component], Src: src}, nil
}
