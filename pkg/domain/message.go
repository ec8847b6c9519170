package domain

// MessageType tags what kind of statement produced a message at a site.
type MessageType string

const (
	// MessageSample marks a stochastic sample statement. Only sample
	// messages may be resampled.
	MessageSample MessageType = "sample"

	// MessageObserve marks an observed (conditioned) value.
	MessageObserve MessageType = "observe"

	// MessageParam marks a deterministic parameter, carried through the
	// trace but excluded from density computations.
	MessageParam MessageType = "param"
)

// DistKind names the distribution family a message was drawn from.
type DistKind string

const (
	DistNormal    DistKind = "normal"
	DistLogNormal DistKind = "lognormal"
	DistGamma     DistKind = "gamma"
	DistBeta      DistKind = "beta"
	DistBernoulli DistKind = "bernoulli"
)

// DistSpec is a serializable description of a univariate distribution.
// Only the fields relevant to the kind are populated: Loc/Scale for normal
// and lognormal, Alpha/Beta for gamma and beta, Prob for bernoulli.
type DistSpec struct {
	Kind  DistKind `json:"kind"`
	Loc   float64  `json:"loc,omitempty"`
	Scale float64  `json:"scale,omitempty"`
	Alpha float64  `json:"alpha,omitempty"`
	Beta  float64  `json:"beta,omitempty"`
	Prob  float64  `json:"prob,omitempty"`
}

// Message is the record a trace keeps for one site: the value that was
// sampled (or observed) there and the distribution it came from.
type Message struct {
	Type  MessageType `json:"type"`
	Value float64     `json:"value"`
	Dist  DistSpec    `json:"dist"`
}

// IsSample reports whether the message came from a sample statement.
func (m *Message) IsSample() bool {
	return m != nil && m.Type == MessageSample
}

// LogPdfResult is the payload published to a message slot by a log-density
// computation.
type LogPdfResult struct {
	LogPdf float64 `json:"log_pdf"`
}
