package matcher

// frontier is a max-heap of Solution Sets keyed by estimate, ties broken by
// insertion sequence (earlier first). It implements heap.Interface.
type frontier []*SolutionSet

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].estimate != f[j].estimate {
		return f[i].estimate > f[j].estimate
	}

	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) {
	f[i], f[j] = f[j], f[i]
	f[i].index = i
	f[j].index = j
}

func (f *frontier) Push(x any) {
	s := x.(*SolutionSet)
	s.index = len(*f)
	*f = append(*f, s)
}

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	s := old[n-1]
	old[n-1] = nil
	s.index = -1
	*f = old[:n-1]

	return s
}
