package engine

import "cellmesh/grid"

// Message is one neighbor notification: who sent it and whether that
// neighbor is alive in the generation just computed
type Message struct {
	From  grid.Coord
	Alive bool
}

// mailboxDepth bounds each buffer. A cell has at most eight distinct
// neighbors and each sends at most once per generation, so sends never
// block.
const mailboxDepth = 8

// mailbox is the double-buffered FIFO queue for one cell. Senders append
// to nxt while the owner drains cur, so notifications produced while
// computing generation G become visible only when computing G+1. The
// coordinator flips the buffers at each generation boundary.
type mailbox struct {
	cur chan Message
	nxt chan Message
}

func newMailbox() *mailbox {
	return &mailbox{
		cur: make(chan Message, mailboxDepth),
		nxt: make(chan Message, mailboxDepth),
	}
}

// flip swaps the receive and send buffers. Owner-side only, never while
// a tick is running.
func (b *mailbox) flip() {
	b.cur, b.nxt = b.nxt, b.cur
}

// reset discards everything queued in both buffers
func (b *mailbox) reset() {
	for {
		select {
		case <-b.cur:
		case <-b.nxt:
		default:
			return
		}
	}
}
