package sessions

import (
	"github.com/reusee/allpaths/configs"
	"github.com/reusee/allpaths/logs"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Configs configs.Module
	Logs    logs.Module
}

type NewSession func() *Session

func (Module) NewSession(
	logger logs.Logger,
	maxRuns MaxRuns,
) NewSession {
	return func() *Session {
		return &Session{
			Logger:  logger,
			MaxRuns: int(maxRuns),
		}
	}
}
