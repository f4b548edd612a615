package obsort

type TraceEventKind int

const (
	TE_INVALID TraceEventKind = iota
	//single-buffer sort; A is the buffer index, B is -1
	TE_SORT
	//two-way merge of buffers A and B
	TE_MERGE
)

type TraceEvent struct {
	Kind TraceEventKind
	A    int
	B    int
}

// Tracer records the ordered buffer accesses of a sort call. The
// recorded sequence is a pure function of the buffer count and row
// counts; tests diff traces across runs with different data and
// selectors to check the access pattern leaks nothing else.
type Tracer struct {
	_events []TraceEvent
}

func NewTracer() *Tracer {
	return &Tracer{}
}

func (tr *Tracer) recordSort(idx int) {
	tr._events = append(tr._events, TraceEvent{Kind: TE_SORT, A: idx, B: -1})
}

func (tr *Tracer) recordMerge(a, b int) {
	tr._events = append(tr._events, TraceEvent{Kind: TE_MERGE, A: a, B: b})
}

func (tr *Tracer) Events() []TraceEvent {
	return tr._events
}

// MergePairs filters the trace down to the (bufferA, bufferB) merge
// sequence.
func (tr *Tracer) MergePairs() []MergePair {
	var ret []MergePair
	for _, ev := range tr._events {
		if ev.Kind == TE_MERGE {
			ret = append(ret, MergePair{A: ev.A, B: ev.B})
		}
	}
	return ret
}

func (tr *Tracer) Reset() {
	tr._events = nil
}
