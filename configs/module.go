package configs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
}

//go:embed schema.cue
var schema string

func (Module) Loader() Loader {

	filenames := []string{
		"allpaths.cue",
		".allpaths.cue",
	}

	var paths []string
	addExisting := func(dir string) {
		for _, filename := range filenames {
			path := filepath.Join(dir, filename)
			if _, err := os.Stat(path); err == nil {
				paths = append(paths, path)
			}
		}
	}

	if workingDir, err := os.Getwd(); err == nil {
		addExisting(workingDir)
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		addExisting(configDir)
	}
	addExisting("/etc")

	return NewLoader(paths, schema)
}
