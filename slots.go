package dynatlas

type slotState uint8

const (
	slotFree    slotState = iota // retired, waiting for reuse
	slotPending                  // handed out, no space requested yet
	slotLive                     // owns a used rectangle
)

// textureID addresses a slot. The generation changes every time the slot is
// retired, so copies of a released Texture stop resolving.
type textureID struct {
	index uint32
	gen   uint32
}

type slot struct {
	rect  Rect
	gen   uint32
	state slotState
}

// slotTable owns the lifetime of every Texture handed out by an Atlas.
type slotTable struct {
	slots    []slot
	freeList []uint32
	live     int
	pending  int
}

func (st *slotTable) acquire(state slotState, r Rect) textureID {
	var idx uint32
	if n := len(st.freeList); n > 0 {
		idx = st.freeList[n-1]
		st.freeList = st.freeList[:n-1]
	} else {
		idx = uint32(len(st.slots))
		// Generation 0 is never valid, so the zero Texture never resolves.
		st.slots = append(st.slots, slot{gen: 1})
	}
	s := &st.slots[idx]
	s.rect = r
	s.state = state
	st.count(state, 1)
	return textureID{index: idx, gen: s.gen}
}

// lookup returns the slot for id, or nil if id is stale.
func (st *slotTable) lookup(id textureID) *slot {
	if int(id.index) >= len(st.slots) {
		return nil
	}
	s := &st.slots[id.index]
	if s.gen != id.gen || s.state == slotFree {
		return nil
	}
	return s
}

// retire frees the slot and returns its previous state and rectangle.
// Stale ids report slotFree.
func (st *slotTable) retire(id textureID) (slotState, Rect) {
	s := st.lookup(id)
	if s == nil {
		return slotFree, Rect{}
	}
	state, r := s.state, s.rect
	st.count(state, -1)
	s.state = slotFree
	s.rect = Rect{}
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	st.freeList = append(st.freeList, id.index)
	return state, r
}

// promote turns a pending slot into a live one owning r.
func (st *slotTable) promote(s *slot, r Rect) {
	st.count(slotPending, -1)
	s.state = slotLive
	s.rect = r
	st.count(slotLive, 1)
}

func (st *slotTable) count(state slotState, d int) {
	switch state {
	case slotLive:
		st.live += d
	case slotPending:
		st.pending += d
	}
}

// each calls fn for every slot that is not free.
func (st *slotTable) each(fn func(id textureID, s *slot)) {
	for i := range st.slots {
		s := &st.slots[i]
		if s.state != slotFree {
			fn(textureID{index: uint32(i), gen: s.gen}, s)
		}
	}
}
