package tree

import (
	"golang.org/x/exp/slices"

	"github.com/amadeus-robot/hubt/core"
	"github.com/amadeus-robot/hubt/store"
)

type preparedOp struct {
	insert bool
	path   core.Path
	leaf   core.Hash
}

// prepareOps hashes every raw op into its path/leaf-hash form and sorts
// the result by path ascending — deterministic, and colocating deletes
// and inserts that may touch the same subtree.
func prepareOps(ops []Op) []preparedOp {
	prepared := make([]preparedOp, len(ops))
	for i, op := range ops {
		path := core.PathFromHash(core.HashKey(op.Key))
		if op.Delete {
			prepared[i] = preparedOp{insert: false, path: path}
		} else {
			prepared[i] = preparedOp{
				insert: true,
				path:   path,
				leaf:   core.HashLeaf(op.Key, op.Value),
			}
		}
	}
	slices.SortFunc(prepared, func(a, b preparedOp) int {
		switch {
		case a.path.Less(b.path):
			return -1
		case b.path.Less(a.path):
			return 1
		default:
			return 0
		}
	})
	return prepared
}

// batchUpdate applies a prepared sequence of inserts/deletes to s and
// repairs the tree structure, per spec.md's batch updater: delete old
// leaves, insert new leaves, ensure split points against each new
// leaf's neighbors, then rehash every dirty ancestor bottom-up.
func batchUpdate(s store.OrderedStore, ops []Op) error {
	prepared := prepareOps(ops)
	dirty := make(map[core.NodeKey]struct{})

	for _, p := range prepared {
		if !p.insert {
			if err := s.Delete(core.LeafKey(p.path)); err != nil {
				return err
			}
		}
	}

	for _, p := range prepared {
		if p.insert {
			if err := s.Insert(core.LeafKey(p.path), p.leaf); err != nil {
				return err
			}
		}
	}

	for _, p := range prepared {
		if p.insert {
			if err := ensureSplitPoints(s, p.path, dirty); err != nil {
				return err
			}
		}
	}

	paths := make([]core.Path, len(prepared))
	for i, p := range prepared {
		paths[i] = p.path
	}
	collectDirtyAncestors(s, paths, dirty)

	return rehashAndPruneBatch(s, dirty)
}
