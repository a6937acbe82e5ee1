package dag

// bitset is a fixed-size set of node indices.
type bitset []uint64

func newBitset(n int) bitset { return make(bitset, (n+63)/64) }

func (b bitset) set(i int)      { b[i>>6] |= 1 << (uint(i) & 63) }
func (b bitset) has(i int) bool { return b[i>>6]&(1<<(uint(i)&63)) != 0 }

// or merges o into b.
func (b bitset) or(o bitset) {
	for i := range b {
		b[i] |= o[i]
	}
}
