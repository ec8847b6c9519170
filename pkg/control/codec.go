package control

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/inferlab/forkpoint/pkg/domain"
)

// envelope is the wire form of a command: a kind tag plus the variant's
// parameters. It is the only payload a waker may legally deliver to a
// parked branch.
type envelope struct {
	Kind   string         `json:"kind"`
	Params map[string]any `json:"params,omitempty"`
}

// Encode serializes a command for delivery through the coordination store.
func Encode(cmd Command) ([]byte, error) {
	env := envelope{Kind: cmd.Kind()}
	if err := mapstructure.Decode(cmd, &env.Params); err != nil {
		return nil, fmt.Errorf("cannot encode %s command: %w", cmd.Kind(), err)
	}
	if len(env.Params) == 0 {
		env.Params = nil
	}
	return json.Marshal(env)
}

// Decode parses a wake payload back into a command. Anything that is not a
// well-formed envelope with a known kind is domain.ErrInvalidWakeCommand,
// which callers treat as fatal.
func Decode(payload []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidWakeCommand, err)
	}

	var cmd Command
	switch env.Kind {
	case KindContinue:
		cmd = &Continue{}
	case KindClone:
		cmd = &Clone{}
	case KindResampleCloneContinue:
		cmd = &ResampleCloneContinue{}
	case KindResampleForkContinue:
		cmd = &ResampleForkContinue{}
	case KindLogPdf:
		cmd = &LogPdf{}
	case KindKill:
		cmd = &Kill{}
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidWakeCommand, env.Kind)
	}

	if len(env.Params) > 0 {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           cmd,
			WeaklyTypedInput: true, // JSON numbers arrive as float64
			ErrorUnused:      true,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidWakeCommand, err)
		}
		if err := dec.Decode(env.Params); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidWakeCommand, err)
		}
	}
	return cmd, nil
}
