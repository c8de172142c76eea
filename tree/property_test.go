package tree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amadeus-robot/hubt/store"
)

func randomKey(r *rand.Rand, _ int) []byte {
	k := make([]byte, 32)
	for i := range k {
		k[i] = byte(r.Intn(256))
	}
	return k
}

func TestInvariantsHoldAfterRandomBatches(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	ms := store.NewMemoryStore()
	tr, err := New(ms)
	require.NoError(t, err)

	live := map[string][]byte{}

	for batch := 0; batch < 20; batch++ {
		var ops []Op
		for i := 0; i < 5; i++ {
			k := randomKey(r, i)
			if r.Intn(3) == 0 && len(live) > 0 {
				for existing := range live {
					ops = append(ops, DeleteOp([]byte(existing)))
					delete(live, existing)
					break
				}
				continue
			}
			v := randomKey(r, i)
			ops = append(ops, InsertOp(k, v))
			live[string(k)] = v
		}
		require.NoError(t, tr.BatchUpdate(ops))

		violations := debugVerifyInvariants(ms)
		assert.Empty(t, violations, "batch %d produced invariant violations: %v", batch, violations)
	}

	for k, v := range live {
		proof, err := tr.Prove([]byte(k), v)
		require.NoError(t, err)
		assert.True(t, Verify([]byte(k), v, proof))
	}
}

func TestBatchAssociativity(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	var keys, values [][]byte
	for i := 0; i < 6; i++ {
		keys = append(keys, randomKey(r, i))
		values = append(values, randomKey(r, i))
	}

	combined, err := New(store.NewMemoryStore())
	require.NoError(t, err)
	var ops []Op
	for i := range keys {
		ops = append(ops, InsertOp(keys[i], values[i]))
	}
	require.NoError(t, combined.BatchUpdate(ops))

	sequential, err := New(store.NewMemoryStore())
	require.NoError(t, err)
	for i := range keys {
		require.NoError(t, sequential.BatchUpdate([]Op{InsertOp(keys[i], values[i])}))
	}

	assert.Equal(t, combined.Root(), sequential.Root())
}
