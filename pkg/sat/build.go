package sat

// BuildCNF constructs a CNF formula equivalent to a truth table over
// log2(len(tt)) input atoms plus one output atom (index atomCount, the
// highest input atom index plus one): satisfying the CNF with atom i
// forced to bit i of an index and the output atom forced true iff
// tt[index] is true.
//
// It works by a BFS over "don't care" masks per truth-table entry: starting
// from the single-point mask (just this entry), it tries growing the mask
// by one more input bit at a time, keeping any growth for which every
// point covered by the larger mask still agrees with the entry's value.
// Every maximal mask found yields one clause covering exactly the points
// it captures. This produces a natural two-level (not necessarily minimal)
// CNF, mirroring a Quine-McCluskey-style prime-implicant search without a
// full minimization pass.
func BuildCNF(tt []bool) Clauses {
	n := len(tt)
	if n == 0 {
		return nil
	}
	atomCount := Log2(n)

	processed := make([]bool, n)
	var cnf Clauses
	for i := 0; i < n; {
		processTTEntry(tt, atomCount, i, processed, &cnf)
		processed[i] = true
		j := i + 1
		for j < n && processed[j] {
			j++
		}
		i = j
	}
	return cnf
}

// processTTEntry grows don't-care masks from the single point index via
// BFS over which additional input bits can be folded in without changing
// the entry's value, emitting one clause per maximal mask reached.
func processTTEntry(tt []bool, atomCount int, index int, processed []bool, cnf *Clauses) {
	n := len(tt)
	compare := make([]bool, n)
	compare[index] = true
	maskAdded := make(map[int]bool)

	queue := []int{0}
	for len(queue) > 0 {
		mask := queue[0]
		queue = queue[1:]

		newMaskFound := false
		for bit := 0; bit < atomCount; bit++ {
			newMask := mask | (1 << uint(bit))
			if newMask == mask {
				continue
			}
			newIndex := index ^ newMask
			if checkMask(tt, atomCount, index, newIndex, newMask, compare) {
				queue = append(queue, newMask)
				newMaskFound = true
				processed[newIndex] = true
			}
		}
		if !newMaskFound && !maskAdded[mask] {
			maskAdded[mask] = true
			addClauseFromIndexMask(atomCount, index, tt[index], mask, cnf)
		}
	}
}

// checkMask reports whether folding newMask's bits into the don't-care set
// around index keeps every already-confirmed sub-point (and the new point
// itself) agreeing with tt[index], memoizing confirmed points in compare.
func checkMask(tt []bool, atomCount, index, newIndex, newMask int, compare []bool) bool {
	for bit := 0; bit < atomCount; bit++ {
		if newMask&(1<<uint(bit)) == 0 {
			continue
		}
		if !compare[newIndex^(1<<uint(bit))] {
			return false
		}
	}
	compare[newIndex] = tt[newIndex] == tt[index]
	return compare[newIndex]
}

// addClauseFromIndexMask emits the clause covering the block of points
// reachable from index by flipping any subset of mask's bits: one literal
// per bit not in mask (fixing that input to index's value), plus one
// literal on the output atom (atomCount) forcing it to !value.
func addClauseFromIndexMask(atomCount, index int, value bool, mask int, cnf *Clauses) {
	var clause Clause
	for bit := 0; bit < atomCount; bit++ {
		if mask&(1<<uint(bit)) != 0 {
			continue
		}
		fixedBit := (index >> uint(bit)) & 1
		clause = append(clause, Lit(Atom(bit), fixedBit != 0))
	}
	clause = append(clause, Lit(Atom(atomCount), !value))
	*cnf = append(*cnf, clause)
}
