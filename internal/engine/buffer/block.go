package buffer

// sentinel terminates every stored line.
const sentinel byte = 0

// blockID is a handle to a block in the arena. The generation changes when
// the slot is freed, so a handle that outlived its block is detected
// instead of silently addressing a reused slot.
type blockID struct {
	index uint32
	gen   uint32
}

// noBlock marks the end of the block list.
var noBlock = blockID{index: ^uint32(0)}

func (id blockID) valid() bool {
	return id.index != noBlock.index
}

// block is one fixed-capacity segment of the document.
type block struct {
	data      []byte
	used      int // bytes in use, always <= len(data)
	lines     int // line starts inside this block
	firstLine int // number of the first line starting here, or of the next line to start
	prev      blockID
	next      blockID
	gen       uint32
	live      bool
}

func (b *block) lastByte() byte {
	return b.data[b.used-1]
}

// arena owns all blocks of one buffer. Slots are reused after release.
type arena struct {
	slots []*block
	free  []uint32
}

// alloc returns a handle to an empty, unlinked block of the given capacity.
func (a *arena) alloc(capacity int) blockID {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, &block{})
	}

	blk := a.slots[idx]
	blk.data = make([]byte, capacity)
	blk.used = 0
	blk.lines = 0
	blk.firstLine = 0
	blk.prev = noBlock
	blk.next = noBlock
	blk.live = true
	return blockID{index: idx, gen: blk.gen}
}

// release frees the block and invalidates every handle to it.
func (a *arena) release(id blockID) {
	blk := a.get(id)
	if blk == nil {
		return
	}
	blk.live = false
	blk.gen++
	blk.data = nil
	a.free = append(a.free, id.index)
}

// get resolves a handle, returning nil for stale or unknown handles.
func (a *arena) get(id blockID) *block {
	if int(id.index) >= len(a.slots) {
		return nil
	}
	blk := a.slots[id.index]
	if !blk.live || blk.gen != id.gen {
		return nil
	}
	return blk
}

// reset drops every block.
func (a *arena) reset() {
	for i, blk := range a.slots {
		if blk.live {
			a.release(blockID{index: uint32(i), gen: blk.gen})
		}
	}
}
