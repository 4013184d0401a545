package mapping

// Ratio returns the Ratcliff/Obershelp similarity 2*M/T of a and b, where M counts the
// characters in matching blocks and T is the combined length. Two empty strings are
// identical.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(newSequenceMatcher(ra, rb).matches()) / float64(total)
}

type block struct {
	i, j, size int
}

type sequenceMatcher struct {
	a, b []rune
	b2j  map[rune][]int
}

func newSequenceMatcher(a, b []rune) *sequenceMatcher {
	m := &sequenceMatcher{a: a, b: b, b2j: map[rune][]int{}}
	for j, r := range b {
		m.b2j[r] = append(m.b2j[r], j)
	}
	// long sequences ignore elements that make up more than 1% of b
	if n := len(b); n >= 200 {
		limit := n/100 + 1
		for r, idx := range m.b2j {
			if len(idx) > limit {
				delete(m.b2j, r)
			}
		}
	}
	return m
}

// matches sums the sizes of all matching blocks.
func (m *sequenceMatcher) matches() int {
	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(m.a), 0, len(m.b)}}
	total := 0
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		blk := m.longestMatch(s.alo, s.ahi, s.blo, s.bhi)
		if blk.size == 0 {
			continue
		}
		total += blk.size
		if s.alo < blk.i && s.blo < blk.j {
			queue = append(queue, span{s.alo, blk.i, s.blo, blk.j})
		}
		if blk.i+blk.size < s.ahi && blk.j+blk.size < s.bhi {
			queue = append(queue, span{blk.i + blk.size, s.ahi, blk.j + blk.size, s.bhi})
		}
	}
	return total
}

// longestMatch finds the longest block a[i:i+size] == b[j:j+size] inside the given
// bounds, preferring the earliest i and then the earliest j.
func (m *sequenceMatcher) longestMatch(alo, ahi, blo, bhi int) block {
	best := block{i: alo, j: blo}
	j2len := map[int]int{}
	for i := alo; i < ahi; i++ {
		next := map[int]int{}
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > best.size {
				best = block{i: i - k + 1, j: j - k + 1, size: k}
			}
		}
		j2len = next
	}
	// grow across elements dropped from b2j as too common
	for best.i > alo && best.j > blo && m.a[best.i-1] == m.b[best.j-1] {
		best.i, best.j, best.size = best.i-1, best.j-1, best.size+1
	}
	for best.i+best.size < ahi && best.j+best.size < bhi && m.a[best.i+best.size] == m.b[best.j+best.size] {
		best.size++
	}
	return best
}
