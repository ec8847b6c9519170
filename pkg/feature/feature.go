/*
Package feature provides hierarchical mixture models for single observed
feature types. A feature adapts a discrete latent component id to an
observation distribution in two stages: global hyperparameters shared by
all mixture components, then per-component parameters drawn once per
component.

Feature models are agnostic to how component membership is chosen; callers
sample the component id from their own distribution and hand it to
ValueDist. There is no coordination or concurrency here, only functional
composition over gonum's distributions.

Example usage:

	f := feature.NewReal("height")
	src := rand.NewPCG(seed, 0)

	shared := f.SampleShared(src)
	group, err := f.SampleGroup(src, shared, numComponents)
	// ...
	d, err := f.ValueDist(src, group, component)
	obs := d.Rand()
*/
package feature

import "math/rand/v2"

// Dist is the observation-distribution surface a feature produces. The
// gonum distuv types satisfy it directly.
type Dist interface {
	Rand() float64
	LogProb(x float64) float64
}

// Shared holds a feature's global hyperparameters, opaque to callers:
// produced by SampleShared, consumed by SampleGroup of the same feature.
type Shared any

// Group holds a feature's per-component parameters, opaque to callers:
// produced by SampleGroup, consumed by ValueDist of the same feature.
type Group any

// Feature is a hierarchical mixture model for one observed feature type.
type Feature interface {
	// Name returns the feature's name, used to prefix its site names.
	Name() string

	// SampleShared draws the hyperparameters shared by all components.
	SampleShared(src rand.Source) Shared

	// SampleGroup draws per-component parameters, vectorized over the
	// given number of components.
	SampleGroup(src rand.Source, shared Shared, components int) (Group, error)

	// ValueDist builds the observation distribution for one component,
	// indexed out of the vectorized group parameters.
	ValueDist(src rand.Source, group Group, component int) (Dist, error)
}
