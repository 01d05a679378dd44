package sessions

import (
	"github.com/reusee/allpaths/cmds"
	"github.com/reusee/allpaths/configs"
	"github.com/reusee/allpaths/vars"
)

// MaxRuns bounds the number of program runs in one exploration.
// Zero means unbounded.
type MaxRuns int

var maxRunsFlag = cmds.Var[int]("-max-runs")

func (Module) MaxRuns(
	loader configs.Loader,
) MaxRuns {
	return MaxRuns(vars.FirstNonZero(
		*maxRunsFlag,
		configs.First[int](loader, "max_runs"),
	))
}
