package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/reusee/allpaths/logs"
	"github.com/reusee/allpaths/trees"
)

// Choose is the choice port handed to a target program. Each call
// offers n (>= 1) options and returns the index of the option the
// program must take this time. A program must propagate a non-nil
// error by returning from its run.
//
// For a fixed sequence of prior responses, the program must reach the
// same point and offer the same n on its next call. The engine's
// correctness rests on that contract.
type Choose func(n int) (int, error)

// Program is one re-runnable execution of the target. It signals
// completion by returning nil, failure by returning an error.
type Program func(choose Choose) error

// Choice is one resolved decision: n options offered, Index taken.
type Choice struct {
	N     int
	Index int
}

// Report describes a finished (or cut short) exploration.
type Report struct {
	Runs     int
	Paths    [][]Choice
	NumNodes int
	Elapsed  time.Duration
}

// ErrRunLimit reports that the configured run limit was reached before
// every path was executed. The report is still valid, just incomplete.
var ErrRunLimit = errors.New("run limit reached before exploration completed")

// TargetError wraps a failure of the target program itself. The tree
// position of the failing run is left unmarked, so the engine never
// silently skips the path; continuing is an explicit caller choice,
// made by exploring again from scratch.
type TargetError struct {
	Err  error
	Path []Choice
}

func (t *TargetError) Error() string {
	return fmt.Sprintf("target program failed after choices %v: %v", t.Path, t.Err)
}

func (t *TargetError) Unwrap() error {
	return t.Err
}

// Session explores one target program exhaustively.
type Session struct {
	Logger logs.Logger
	// MaxRuns bounds the number of program runs. Zero means no bound.
	MaxRuns int
}

// Explore re-runs program until every reachable outcome has been
// executed exactly once, and reports every path taken. Each run of the
// program walks one root-to-leaf path of the execution tree, growing
// it at the first unexplored choice point encountered.
//
// Cancellation is honored between runs, never mid-run.
func (s *Session) Explore(ctx context.Context, program Program) (*Report, error) {
	tree := trees.New()
	report := &Report{}
	started := time.Now()
	defer func() {
		report.NumNodes = tree.Len()
		report.Elapsed = time.Since(started)
	}()

	for {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		tree.Prune()
		if tree.Done() {
			s.Logger.InfoContext(ctx, "exploration complete",
				"runs", report.Runs,
				"nodes", tree.Len(),
			)
			return report, nil
		}
		if s.MaxRuns > 0 && report.Runs >= s.MaxRuns {
			return report, logs.WrapSpan(ctx, fmt.Errorf("%w: %d runs", ErrRunLimit, report.Runs))
		}

		cursor := tree.Root()
		var path []Choice
		var fault error
		choose := func(n int) (int, error) {
			if fault != nil {
				return 0, fault
			}
			next, index, err := tree.ObserveChoice(cursor, n)
			if err != nil {
				fault = err
				return 0, err
			}
			cursor = next
			path = append(path, Choice{N: n, Index: index})
			return index, nil
		}

		runErr := program(choose)

		// A divergence latched by the choice port wins over whatever
		// the program returned: a program that swallows the error must
		// not be able to keep mutating an untrustworthy tree.
		if fault != nil {
			return report, logs.WrapSpan(ctx, fault)
		}
		if runErr != nil {
			return report, logs.WrapSpan(ctx, &TargetError{
				Err:  runErr,
				Path: path,
			})
		}

		tree.MarkDone(cursor)
		report.Runs++
		report.Paths = append(report.Paths, path)
		s.Logger.DebugContext(ctx, "run complete",
			"run", report.Runs,
			"choices", len(path),
		)
	}
}
