package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"easel/internal/project"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Create an easel.toml manifest and a starter script",
		Long: `Create easel.toml and main.eel in [path] (default: the current directory).
A missing directory is created. An existing manifest is never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
	cmd.Flags().StringSlice("declare", []string{"@init", "@block"}, "sections of the starter script")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	sections, err := declaredSections(cmd)
	if err != nil {
		return err
	}
	if len(sections) == 0 {
		return fmt.Errorf("init needs at least one section")
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifestPath := filepath.Join(target, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	const scriptName = "main.eel"
	// #nosec G306 -- project files are meant to be readable
	if err := os.WriteFile(manifestPath, []byte(project.DefaultManifest(scriptName, sections)), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", manifestPath, err)
	}
	created := []string{manifestPath}

	scriptPath := filepath.Join(target, scriptName)
	if _, err := os.Stat(scriptPath); errors.Is(err, os.ErrNotExist) {
		// #nosec G306 -- project files are meant to be readable
		if err := os.WriteFile(scriptPath, []byte(project.DefaultScript(sections)), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", scriptPath, err)
		}
		created = append(created, scriptPath)
	}

	if !quiet(cmd) {
		for _, p := range created {
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", p)
		}
	}
	return nil
}
