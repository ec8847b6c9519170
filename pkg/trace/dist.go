package trace

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/inferlab/forkpoint/pkg/domain"
)

// Dist is the sampling surface the trace needs from a distribution.
// The gonum distuv types satisfy it directly.
type Dist interface {
	Rand() float64
	LogProb(x float64) float64
}

// NewDist builds a concrete distribution from its serialized spec, bound to
// the given random source.
func NewDist(spec domain.DistSpec, src rand.Source) (Dist, error) {
	switch spec.Kind {
	case domain.DistNormal:
		return distuv.Normal{Mu: spec.Loc, Sigma: spec.Scale, Src: src}, nil
	case domain.DistLogNormal:
		return distuv.LogNormal{Mu: spec.Loc, Sigma: spec.Scale, Src: src}, nil
	case domain.DistGamma:
		return distuv.Gamma{Alpha: spec.Alpha, Beta: spec.Beta, Src: src}, nil
	case domain.DistBeta:
		return distuv.Beta{Alpha: spec.Alpha, Beta: spec.Beta, Src: src}, nil
	case domain.DistBernoulli:
		return distuv.Bernoulli{P: spec.Prob, Src: src}, nil
	default:
		return nil, fmt.Errorf("unknown distribution kind %q", spec.Kind)
	}
}
