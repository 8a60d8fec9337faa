package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"easel/internal/project"
)

// scriptTarget is the script a command works on and how to run it.
type scriptTarget struct {
	Path     string
	Sections []string
	Manifest *project.Manifest
}

// resolveScript picks the script from args or, without args, from the
// nearest easel.toml. --declare overrides the manifest sections.
func resolveScript(cmd *cobra.Command, args []string) (scriptTarget, error) {
	declared, err := declaredSections(cmd)
	if err != nil {
		return scriptTarget{}, err
	}

	var manifest *project.Manifest
	if len(args) == 0 || len(declared) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return scriptTarget{}, err
		}
		manifest, err = project.Load(wd)
		if err != nil && !errors.Is(err, project.ErrNoManifest) {
			return scriptTarget{}, err
		}
	}

	target := scriptTarget{Sections: declared, Manifest: manifest}
	if len(args) > 0 {
		target.Path = args[0]
	} else if manifest != nil {
		target.Path = manifest.ScriptPath()
	} else {
		return scriptTarget{}, fmt.Errorf("no script given and no %s found", project.ManifestName)
	}
	if len(target.Sections) == 0 && manifest != nil {
		target.Sections = manifest.Config.Script.Sections
	}
	if len(target.Sections) == 0 {
		return scriptTarget{}, fmt.Errorf("no sections declared (use --declare @a,@b or %s)", project.ManifestName)
	}
	return target, nil
}
