package trees

import (
	"errors"
	"fmt"
)

// ErrInconsistent reports that a running program disagreed with the
// branch structure recorded by earlier runs. The determinism-given-
// history contract is broken and no further exploration of the tree
// can be trusted.
var ErrInconsistent = errors.New("program inconsistent with recorded execution tree")

// NodeID indexes a node in the tree's arena. The root is always 0.
type NodeID int32

const NoNode NodeID = -1

type nodeState uint8

const (
	stateUnexplored nodeState = iota
	stateBranch
	stateDone
)

type node struct {
	state    nodeState
	children []NodeID
}

// Tree records every choice point discovered so far across repeated
// runs of a program, and which subtrees have been fully executed.
// All nodes live in one growable arena; child links and cursors are
// plain indices into it.
type Tree struct {
	nodes []node
}

func New() *Tree {
	return &Tree{
		nodes: make([]node, 1),
	}
}

func (t *Tree) Root() NodeID {
	return 0
}

// Len is the number of arena slots allocated so far.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Done reports whether every path of the program has been executed.
// Only meaningful after Prune.
func (t *Tree) Done() bool {
	return t.nodes[0].state == stateDone
}

func (t *Tree) IsDone(id NodeID) bool {
	return t.nodes[id].state == stateDone
}

// MarkDone forces a node to the fully-explored state. The driver calls
// it on the cursor when a run terminates normally: termination itself
// is the signal that the path is exhausted.
func (t *Tree) MarkDone(id NodeID) {
	t.nodes[id].state = stateDone
	t.nodes[id].children = nil
}

// ObserveChoice resolves one nondeterministic decision with n options
// at the node cursor points to. It returns the node the cursor moves
// to and the option index the running program must take.
func (t *Tree) ObserveChoice(cursor NodeID, n int) (NodeID, int, error) {
	if n < 1 {
		return NoNode, 0, fmt.Errorf("%w: %d options offered at node %d", ErrInconsistent, n, cursor)
	}

	if t.nodes[cursor].state == stateDone {
		return NoNode, 0, fmt.Errorf("%w: choice requested at fully explored node %d", ErrInconsistent, cursor)
	}

	if n == 1 {
		// a single option carries no information, don't record it
		return cursor, 0, nil
	}

	switch t.nodes[cursor].state {

	case stateUnexplored:
		children := make([]NodeID, n)
		for i := range children {
			children[i] = NodeID(len(t.nodes))
			t.nodes = append(t.nodes, node{})
		}
		t.nodes[cursor].state = stateBranch
		t.nodes[cursor].children = children
		return children[0], 0, nil

	case stateBranch:
		children := t.nodes[cursor].children
		if len(children) != n {
			return NoNode, 0, fmt.Errorf("%w: node %d recorded %d options, program offered %d", ErrInconsistent, cursor, len(children), n)
		}
		for i, child := range children {
			if t.nodes[child].state != stateDone {
				return child, i, nil
			}
		}
		// unreachable when pruning collapsed this node already
		return NoNode, 0, fmt.Errorf("%w: all %d options at node %d already explored", ErrInconsistent, n, cursor)

	}

	panic(fmt.Errorf("bad node state: %d", t.nodes[cursor].state))
}

// Prune collapses every branch whose children are all done into a
// single done node. It never changes which paths the tree has
// recorded; it only keeps child scans cheap and lets children slices
// be reclaimed. Idempotent.
func (t *Tree) Prune() {
	t.prune(0)
}

func (t *Tree) prune(id NodeID) {
	if t.nodes[id].state != stateBranch {
		return
	}
	allDone := true
	for _, child := range t.nodes[id].children {
		t.prune(child)
		if t.nodes[child].state != stateDone {
			allDone = false
		}
	}
	if allDone {
		t.nodes[id].state = stateDone
		t.nodes[id].children = nil
	}
}
