package puzzle

import (
	"sort"
)

// forwardPairs are the two expansion directions of the traversal: a piece's
// Right fingerprint is looked up among Left fingerprints, Bottom among Top.
var forwardPairs = [2]struct{ side, opposite Side }{
	{Right, Left},
	{Bottom, Top},
}

// Assemble assigns every reachable piece an absolute (col, row) by growing
// the grid rightward and downward from the origin anchor.
//
// Pieces are first sorted so anchors precede non-anchors and the origin
// (col 0, row 0) comes first, making the traversal independent of ingestion
// order. A depth-first work stack seeded with the origin then expands each
// placed piece across its Right and Bottom edges: the first candidate in
// index insertion order that is not the piece itself and still unresolved
// wins, receives the neighbor coordinates, and is pushed for further
// expansion. Pieces never matched stay Unresolved and are dropped later.
//
// The slice is reordered in place and piece coordinates are mutated; each
// coordinate is assigned at most once.
func Assemble(pieces []*Piece, geo Geometry) {
	if len(pieces) == 0 {
		return
	}

	sortForTraversal(pieces)
	idx := BuildEdgeIndex(pieces)

	stack := []int{0}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		col, row := pieces[cur].Col, pieces[cur].Row
		if col == geo.GridSize-1 && row == geo.GridSize-1 {
			// Terminal cell, nothing to discover rightward or downward.
			continue
		}

		for _, pair := range forwardPairs {
			match := -1
			for _, cand := range idx[pair.opposite][pieces[cur].EdgeHashes[pair.side]] {
				if cand != cur && (pieces[cand].Col == Unresolved || pieces[cand].Row == Unresolved) {
					match = cand
					break
				}
			}
			if match < 0 {
				continue
			}

			off := offsets[pair.side]
			pieces[match].Col = col + off.dc
			pieces[match].Row = row + off.dr
			stack = append(stack, match)
		}
	}
}

// sortForTraversal orders anchors before non-anchors, the origin before every
// other anchor, and the rest by ascending col+row, so the work stack always
// seeds from the origin regardless of ingestion order.
func sortForTraversal(pieces []*Piece) {
	sort.SliceStable(pieces, func(i, j int) bool {
		a, b := pieces[i], pieces[j]
		aAnchor := a.Col == 0 || a.Row == 0
		bAnchor := b.Col == 0 || b.Row == 0
		if aAnchor != bAnchor {
			return aAnchor
		}
		aOrigin := a.Col == 0 && a.Row == 0
		bOrigin := b.Col == 0 && b.Row == 0
		if aOrigin != bOrigin {
			return aOrigin
		}
		return a.Col+a.Row < b.Col+b.Row
	})
}

// Placed counts the pieces holding a valid in-grid position.
func Placed(pieces []*Piece, geo Geometry) int {
	n := 0
	for _, p := range pieces {
		if p.InGrid(geo) {
			n++
		}
	}
	return n
}
