package puzzle

// EdgeIndex maps, per side, an edge fingerprint to the indices of the pieces
// exposing that fingerprint on that side, in insertion order. It is built
// once after the traversal sort and read-only during assembly.
//
// Identical fingerprints across different tiles are kept as-is; the assembler
// filters candidates by placement state instead of the index deduplicating.
type EdgeIndex [4]map[uint64][]int

// BuildEdgeIndex indexes every piece's four edge fingerprints.
func BuildEdgeIndex(pieces []*Piece) EdgeIndex {
	var idx EdgeIndex
	for s := range idx {
		idx[s] = make(map[uint64][]int, len(pieces))
	}
	for i, p := range pieces {
		for s := Left; s <= Bottom; s++ {
			idx[s][p.EdgeHashes[s]] = append(idx[s][p.EdgeHashes[s]], i)
		}
	}
	return idx
}
