package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/reusee/allpaths/cmds"
	"github.com/reusee/allpaths/logs"
	"github.com/reusee/allpaths/modes"
	"github.com/reusee/allpaths/sessions"
	"github.com/reusee/allpaths/starprogs"
	"github.com/reusee/dscope"
	"golang.org/x/term"
)

type Module struct {
	dscope.Module
	Sessions sessions.Module
}

func main() {
	ctx := context.Background()

	scope := dscope.New(
		new(Module),
		modes.ForProduction(),
	)

	explored := false
	cmds.Define("explore", cmds.Func(func(path string) error {
		explored = true
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		return explore(ctx, scope, path, file)
	}).Desc("run every possible execution path of a starlark program"))

	if err := cmds.GlobalExecutor.Execute(os.Args[1:]); err != nil {
		die(err)
	}

	if !explored && !term.IsTerminal(int(os.Stdin.Fd())) {
		if err := explore(ctx, scope, "stdin", os.Stdin); err != nil {
			die(err)
		}
	}
}

func die(err error) {
	os.Stderr.WriteString(err.Error())
	os.Stderr.WriteString("\n")
	os.Exit(1)
}

func explore(ctx context.Context, scope dscope.Scope, name string, src io.Reader) error {
	content, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	program, err := starprogs.Compile(name, content)
	if err != nil {
		return err
	}

	var retErr error
	scope.Call(func(
		logger logs.Logger,
		newSpan logs.NewSpan,
		newSession sessions.NewSession,
	) {
		ctx, _ := newSpan(ctx, "")

		var outputs [][]any
		var current []any
		runner := program.Runner(func(value any) {
			current = append(current, value)
		})

		session := newSession()
		report, err := session.Explore(ctx, func(choose sessions.Choose) error {
			current = nil
			runErr := runner(choose)
			if runErr == nil {
				outputs = append(outputs, current)
			}
			return runErr
		})

		for i, path := range report.Paths {
			var b strings.Builder
			fmt.Fprintf(&b, "path %d:", i+1)
			for _, choice := range path {
				fmt.Fprintf(&b, " %d/%d", choice.Index, choice.N)
			}
			if len(outputs[i]) > 0 {
				fmt.Fprintf(&b, " => %v", outputs[i])
			}
			fmt.Println(b.String())
		}

		if err != nil {
			if errors.Is(err, sessions.ErrRunLimit) {
				logger.WarnContext(ctx, "exploration incomplete", "error", err)
				return
			}
			retErr = err
			return
		}

		logger.InfoContext(ctx, "explored",
			"program", name,
			"runs", report.Runs,
			"nodes", report.NumNodes,
			"elapsed", report.Elapsed,
		)
	})
	return retErr
}
