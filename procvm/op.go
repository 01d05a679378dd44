package procvm

// Op is one instruction of a toy process. A process is a sequence of
// ops executed in order; the machine interleaves processes one op at a
// time.
type Op interface {
	isOp()
}

// Spawn starts a new process running the given ops.
type Spawn struct {
	Ops []Op
}

// Send appends Value to the named channel. Never blocks.
type Send struct {
	Chan  string
	Value any
}

// Recv pops the oldest value from the named channel, blocking the
// process until one is available. With Emit set, the received value is
// appended to the machine output.
type Recv struct {
	Chan string
	Emit bool
}

// Emit appends Value to the machine output.
type Emit struct {
	Value any
}

func (Spawn) isOp() {}
func (Send) isOp()  {}
func (Recv) isOp()  {}
func (Emit) isOp()  {}
