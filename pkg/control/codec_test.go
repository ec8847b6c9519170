package control_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferlab/forkpoint/pkg/control"
	"github.com/inferlab/forkpoint/pkg/domain"
)

func TestCodec_RoundTrip(t *testing.T) {
	seed := uint64(1234)

	cases := []control.Command{
		&control.Continue{},
		&control.Clone{Count: 4},
		&control.ResampleCloneContinue{Seed: &seed, Count: 2},
		&control.ResampleForkContinue{Seed: &seed, UUIDOnSample: true},
		&control.ResampleForkContinue{UUIDOnSample: false},
		&control.LogPdf{},
		&control.Kill{},
	}

	for _, cmd := range cases {
		t.Run(cmd.Kind(), func(t *testing.T) {
			payload, err := control.Encode(cmd)
			require.NoError(t, err)

			decoded, err := control.Decode(payload)
			require.NoError(t, err)
			assert.Equal(t, cmd, decoded)
		})
	}
}

func TestCodec_RejectsGarbage(t *testing.T) {
	cases := map[string][]byte{
		"not json":       []byte("lol nope"),
		"wrong shape":    []byte(`[1,2,3]`),
		"unknown kind":   []byte(`{"kind":"self_destruct"}`),
		"missing kind":   []byte(`{"params":{"count":3}}`),
		"foreign params": []byte(`{"kind":"kill","params":{"count":3}}`),
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := control.Decode(payload)
			assert.ErrorIs(t, err, domain.ErrInvalidWakeCommand)
		})
	}
}
