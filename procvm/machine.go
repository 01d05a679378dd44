package procvm

import (
	"fmt"

	"github.com/reusee/allpaths/sessions"
)

// Machine runs a set of toy processes over named unbounded FIFO
// channels. Which runnable process executes its next op is decided by
// a choice port, so driving Run with an exploring session enumerates
// every interleaving.
//
// Given a fixed sequence of choice responses the machine is fully
// deterministic: runnable processes are offered in stable spawn order
// and channels are strict FIFOs.
type Machine struct {
	procs  []*proc
	chans  map[string][]any
	Output []any
}

type proc struct {
	ops []Op
}

func NewMachine(main []Op) *Machine {
	m := &Machine{
		chans: make(map[string][]any),
	}
	m.procs = append(m.procs, &proc{ops: main})
	return m
}

// Run interleaves all processes to completion. It returns an error on
// deadlock, i.e. no process can make progress but some still have ops
// left.
func (m *Machine) Run(choose sessions.Choose) error {
	for {
		runnable := m.runnable()
		if len(runnable) == 0 {
			for pid, p := range m.procs {
				if len(p.ops) > 0 {
					return fmt.Errorf("deadlock: process %d blocked on %q", pid, p.ops[0].(Recv).Chan)
				}
			}
			return nil
		}
		i, err := choose(len(runnable))
		if err != nil {
			return err
		}
		m.step(runnable[i])
	}
}

func (m *Machine) runnable() []*proc {
	var ret []*proc
	for _, p := range m.procs {
		if len(p.ops) == 0 {
			continue
		}
		if recv, ok := p.ops[0].(Recv); ok && len(m.chans[recv.Chan]) == 0 {
			continue
		}
		ret = append(ret, p)
	}
	return ret
}

func (m *Machine) step(p *proc) {
	op := p.ops[0]
	p.ops = p.ops[1:]

	switch op := op.(type) {

	case Spawn:
		m.procs = append(m.procs, &proc{ops: op.Ops})

	case Send:
		m.chans[op.Chan] = append(m.chans[op.Chan], op.Value)

	case Recv:
		queue := m.chans[op.Chan]
		m.chans[op.Chan] = queue[1:]
		if op.Emit {
			m.Output = append(m.Output, queue[0])
		}

	case Emit:
		m.Output = append(m.Output, op.Value)

	}
}

// NewProgram adapts a process definition to the exploration driver.
// Every invocation executes a fresh machine; observe, if not nil, sees
// the finished machine of each successful run.
func NewProgram(main []Op, observe func(*Machine)) sessions.Program {
	return func(choose sessions.Choose) error {
		m := NewMachine(main)
		if err := m.Run(choose); err != nil {
			return err
		}
		if observe != nil {
			observe(m)
		}
		return nil
	}
}
