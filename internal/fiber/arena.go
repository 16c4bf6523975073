package fiber

// Arena is an indexable store of fibers with a free list.
// Slot 0 is reserved so that the zero Handle means "no fiber".
type Arena struct {
	slots []Fiber
	live  []bool
	free  []Handle
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{
		slots: make([]Fiber, 1),
		live:  make([]bool, 1),
	}
}

// Alloc stores f and returns its handle, reusing a released slot when possible.
func (a *Arena) Alloc(f Fiber) Handle {
	if n := len(a.free); n > 0 {
		h := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[h] = f
		a.live[h] = true
		return h
	}
	a.slots = append(a.slots, f)
	a.live = append(a.live, true)
	return Handle(len(a.slots) - 1)
}

// Get returns the fiber behind h, or nil for Nil and released handles.
// The pointer is only valid until the next Alloc.
func (a *Arena) Get(h Handle) *Fiber {
	if h.IsNil() || int(h) >= len(a.slots) || !a.live[h] {
		return nil
	}
	return &a.slots[h]
}

// Len returns the number of live fibers.
func (a *Arena) Len() int {
	return len(a.slots) - 1 - len(a.free)
}

// Release frees the slot behind h. Releasing Nil or a freed handle is a no-op.
func (a *Arena) Release(h Handle) {
	if a.Get(h) == nil {
		return
	}
	a.slots[h] = Fiber{}
	a.live[h] = false
	a.free = append(a.free, h)
}

// Sweep releases every live fiber allocated by a pass other than keep and
// returns how many were released.
func (a *Arena) Sweep(keep uint64) int {
	n := 0
	for i := 1; i < len(a.slots); i++ {
		if a.live[i] && a.slots[i].Pass != keep {
			a.Release(Handle(i))
			n++
		}
	}
	return n
}

// SweepPass releases every live fiber allocated by pass and returns how many were released.
func (a *Arena) SweepPass(pass uint64) int {
	n := 0
	for i := 1; i < len(a.slots); i++ {
		if a.live[i] && a.slots[i].Pass == pass {
			a.Release(Handle(i))
			n++
		}
	}
	return n
}

// Reset releases every fiber and drops the backing storage.
func (a *Arena) Reset() {
	a.slots = make([]Fiber, 1)
	a.live = make([]bool, 1)
	a.free = nil
}

// Next returns the fiber visited after h in a pre-order walk bounded by root:
// the first child, else the nearest sibling found by climbing parent links.
// It returns Nil once the walk climbs back to root.
func (a *Arena) Next(h, root Handle) Handle {
	f := a.Get(h)
	if f == nil {
		return Nil
	}
	if !f.Child.IsNil() {
		return f.Child
	}
	return a.NextSkippingChildren(h, root)
}

// NextSkippingChildren is Next without descending into h's children.
func (a *Arena) NextSkippingChildren(h, root Handle) Handle {
	for cur := h; !cur.IsNil() && cur != root; {
		f := a.Get(cur)
		if f == nil {
			return Nil
		}
		if !f.Sibling.IsNil() {
			return f.Sibling
		}
		cur = f.Parent
	}
	return Nil
}

// Children returns the handles of h's child chain, in order.
func (a *Arena) Children(h Handle) []Handle {
	var out []Handle
	f := a.Get(h)
	if f == nil {
		return nil
	}
	for c := f.Child; !c.IsNil(); {
		out = append(out, c)
		cf := a.Get(c)
		if cf == nil {
			break
		}
		c = cf.Sibling
	}
	return out
}
