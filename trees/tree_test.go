package trees

import (
	"errors"
	"testing"
)

func TestFirstVisitBranches(t *testing.T) {
	tree := New()

	next, index, err := tree.ObserveChoice(tree.Root(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if index != 0 {
		t.Fatalf("got %d", index)
	}
	if next == tree.Root() {
		t.Fatal("cursor did not move")
	}
	if tree.Len() != 4 {
		t.Fatalf("got %d nodes", tree.Len())
	}
}

func TestRevisitSkipsDone(t *testing.T) {
	tree := New()

	first, _, err := tree.ObserveChoice(tree.Root(), 2)
	if err != nil {
		t.Fatal(err)
	}
	tree.MarkDone(first)

	next, index, err := tree.ObserveChoice(tree.Root(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if index != 1 {
		t.Fatalf("got index %d", index)
	}
	if next == first {
		t.Fatal("returned a done child")
	}
}

func TestSingleOptionNotRecorded(t *testing.T) {
	tree := New()

	next, index, err := tree.ObserveChoice(tree.Root(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if index != 0 {
		t.Fatalf("got %d", index)
	}
	if next != tree.Root() {
		t.Fatal("cursor moved")
	}
	if tree.Len() != 1 {
		t.Fatalf("got %d nodes", tree.Len())
	}
}

func TestOptionCountMismatch(t *testing.T) {
	tree := New()

	if _, _, err := tree.ObserveChoice(tree.Root(), 2); err != nil {
		t.Fatal(err)
	}
	nodes := tree.Len()

	_, _, err := tree.ObserveChoice(tree.Root(), 3)
	if !errors.Is(err, ErrInconsistent) {
		t.Fatalf("got %v", err)
	}
	// the faulting call must not mutate the tree
	if tree.Len() != nodes {
		t.Fatalf("got %d nodes", tree.Len())
	}

	// the recorded structure is still usable
	next, index, err := tree.ObserveChoice(tree.Root(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if index != 0 {
		t.Fatalf("got %d", index)
	}
	if next == NoNode {
		t.Fatal("no node")
	}
}

func TestChoiceAtDoneNode(t *testing.T) {
	tree := New()
	tree.MarkDone(tree.Root())

	_, _, err := tree.ObserveChoice(tree.Root(), 2)
	if !errors.Is(err, ErrInconsistent) {
		t.Fatalf("got %v", err)
	}
}

func TestNonPositiveOptionCount(t *testing.T) {
	tree := New()

	_, _, err := tree.ObserveChoice(tree.Root(), 0)
	if !errors.Is(err, ErrInconsistent) {
		t.Fatalf("got %v", err)
	}
}

func TestPruneCollapses(t *testing.T) {
	tree := New()

	left, _, err := tree.ObserveChoice(tree.Root(), 2)
	if err != nil {
		t.Fatal(err)
	}
	tree.MarkDone(left)

	tree.Prune()
	if tree.Done() {
		t.Fatal("root done with an unexplored child")
	}

	right, _, err := tree.ObserveChoice(tree.Root(), 2)
	if err != nil {
		t.Fatal(err)
	}
	tree.MarkDone(right)

	tree.Prune()
	if !tree.Done() {
		t.Fatal("root not collapsed")
	}
}

func TestPruneIdempotent(t *testing.T) {
	tree := New()

	cursor, _, err := tree.ObserveChoice(tree.Root(), 2)
	if err != nil {
		t.Fatal(err)
	}
	cursor, _, err = tree.ObserveChoice(cursor, 2)
	if err != nil {
		t.Fatal(err)
	}
	tree.MarkDone(cursor)

	tree.Prune()
	states := make([]bool, tree.Len())
	for i := range states {
		states[i] = tree.IsDone(NodeID(i))
	}

	tree.Prune()
	for i := range states {
		if tree.IsDone(NodeID(i)) != states[i] {
			t.Fatalf("node %d changed", i)
		}
	}
}
