package sessions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"testing"

	"github.com/reusee/allpaths/logs"
	"github.com/reusee/allpaths/trees"
	"github.com/reusee/dscope"
)

func testSession(t *testing.T) *Session {
	var session *Session
	dscope.New(
		new(Module),
	).Fork(
		func() logs.Writer {
			return io.Discard
		},
	).Call(func(
		newSession NewSession,
	) {
		session = newSession()
	})
	return session
}

func indexes(path []Choice) []int {
	ret := make([]int, 0, len(path))
	for _, choice := range path {
		ret = append(ret, choice.Index)
	}
	return ret
}

func TestTwoLevelScenario(t *testing.T) {
	session := testSession(t)

	program := func(choose Choose) error {
		x, err := choose(2)
		if err != nil {
			return err
		}
		if x == 1 {
			if _, err := choose(2); err != nil {
				return err
			}
		}
		return nil
	}

	report, err := session.Explore(t.Context(), program)
	if err != nil {
		t.Fatal(err)
	}
	if report.Runs != 3 {
		t.Fatalf("got %d runs", report.Runs)
	}
	expected := [][]int{
		{0},
		{1, 0},
		{1, 1},
	}
	for i, path := range report.Paths {
		if !reflect.DeepEqual(indexes(path), expected[i]) {
			t.Fatalf("run %d took %v", i, indexes(path))
		}
	}
}

func TestExhaustiveness(t *testing.T) {
	session := testSession(t)

	// 3 * 2 = 6 leaves
	program := func(choose Choose) error {
		if _, err := choose(3); err != nil {
			return err
		}
		if _, err := choose(2); err != nil {
			return err
		}
		return nil
	}

	report, err := session.Explore(t.Context(), program)
	if err != nil {
		t.Fatal(err)
	}
	if report.Runs != 6 {
		t.Fatalf("got %d runs", report.Runs)
	}

	seen := make(map[string]bool)
	for _, path := range report.Paths {
		key := fmt.Sprintf("%v", path)
		if seen[key] {
			t.Fatalf("path %s executed twice", key)
		}
		seen[key] = true
	}
	for i := range 3 {
		for j := range 2 {
			key := fmt.Sprintf("%v", []Choice{{N: 3, Index: i}, {N: 2, Index: j}})
			if !seen[key] {
				t.Fatalf("path %s never executed", key)
			}
		}
	}
}

func TestOrderDeterminism(t *testing.T) {
	program := func(choose Choose) error {
		x, err := choose(2)
		if err != nil {
			return err
		}
		if x == 0 {
			if _, err := choose(3); err != nil {
				return err
			}
		}
		return nil
	}

	first, err := testSession(t).Explore(t.Context(), program)
	if err != nil {
		t.Fatal(err)
	}
	second, err := testSession(t).Explore(t.Context(), program)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first.Paths, second.Paths) {
		t.Fatalf("got %v then %v", first.Paths, second.Paths)
	}
}

func TestSingleOptionSkip(t *testing.T) {
	session := testSession(t)

	program := func(choose Choose) error {
		for range 3 {
			if _, err := choose(1); err != nil {
				return err
			}
		}
		return nil
	}

	report, err := session.Explore(t.Context(), program)
	if err != nil {
		t.Fatal(err)
	}
	if report.Runs != 1 {
		t.Fatalf("got %d runs", report.Runs)
	}
	if report.NumNodes != 1 {
		t.Fatalf("got %d nodes", report.NumNodes)
	}
}

func TestNoChoiceProgram(t *testing.T) {
	session := testSession(t)

	report, err := session.Explore(t.Context(), func(choose Choose) error {
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if report.Runs != 1 {
		t.Fatalf("got %d runs", report.Runs)
	}
}

func TestRunLimit(t *testing.T) {
	session := testSession(t)
	session.MaxRuns = 2

	program := func(choose Choose) error {
		if _, err := choose(3); err != nil {
			return err
		}
		return nil
	}

	report, err := session.Explore(t.Context(), program)
	if !errors.Is(err, ErrRunLimit) {
		t.Fatalf("got %v", err)
	}
	if report.Runs != 2 {
		t.Fatalf("got %d runs", report.Runs)
	}
}

func TestTargetFailure(t *testing.T) {
	session := testSession(t)

	boom := errors.New("boom")
	program := func(choose Choose) error {
		x, err := choose(2)
		if err != nil {
			return err
		}
		if x == 1 {
			return boom
		}
		return nil
	}

	report, err := session.Explore(t.Context(), program)
	var targetErr *TargetError
	if !errors.As(err, &targetErr) {
		t.Fatalf("got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
	if !reflect.DeepEqual(indexes(targetErr.Path), []int{1}) {
		t.Fatalf("got %v", targetErr.Path)
	}
	if report.Runs != 1 {
		t.Fatalf("got %d runs", report.Runs)
	}
}

func TestDivergentOptionCount(t *testing.T) {
	session := testSession(t)

	runs := 0
	program := func(choose Choose) error {
		runs++
		n := 2
		if runs > 1 {
			n = 3
		}
		_, err := choose(n)
		return err
	}

	report, err := session.Explore(t.Context(), program)
	if !errors.Is(err, trees.ErrInconsistent) {
		t.Fatalf("got %v", err)
	}
	if report.Runs != 1 {
		t.Fatalf("got %d runs", report.Runs)
	}
}

func TestDivergenceSwallowedByProgram(t *testing.T) {
	session := testSession(t)

	runs := 0
	program := func(choose Choose) error {
		runs++
		n := 2
		if runs > 1 {
			n = 3
		}
		// drop the error on the floor
		choose(n)
		return nil
	}

	_, err := session.Explore(t.Context(), program)
	if !errors.Is(err, trees.ErrInconsistent) {
		t.Fatalf("got %v", err)
	}
}

func TestCancellation(t *testing.T) {
	session := testSession(t)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	report, err := session.Explore(ctx, func(choose Choose) error {
		t.Fatal("program ran after cancellation")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
	if report.Runs != 0 {
		t.Fatalf("got %d runs", report.Runs)
	}
}
