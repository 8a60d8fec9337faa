package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type outFormat string

const (
	formatPretty outFormat = "pretty"
	formatLegacy outFormat = "legacy"
	formatJSON   outFormat = "json"
	formatSarif  outFormat = "sarif"
)

func outputFormat(cmd *cobra.Command) (outFormat, error) {
	value, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", fmt.Errorf("failed to get format flag: %w", err)
	}
	switch f := outFormat(strings.ToLower(strings.TrimSpace(value))); f {
	case formatPretty, formatLegacy, formatJSON, formatSarif:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (expected pretty|legacy|json|sarif)", value)
}

func colorEnabled(cmd *cobra.Command) (bool, error) {
	value, err := cmd.Flags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.ToLower(value) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "", "auto":
		return isTerminal(os.Stdout), nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
}

func applyColor(enabled bool) {
	color.NoColor = !enabled
}

func quiet(cmd *cobra.Command) bool {
	q, _ := cmd.Flags().GetBool("quiet")
	return q
}

// declaredSections reads --declare. Values may be repeated or comma separated.
func declaredSections(cmd *cobra.Command) ([]string, error) {
	raw, err := cmd.Flags().GetStringSlice("declare")
	if err != nil {
		return nil, fmt.Errorf("failed to get declare flag: %w", err)
	}
	return normalizeSections(raw)
}

func normalizeSections(raw []string) ([]string, error) {
	var out []string
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !strings.HasPrefix(s, "@") || len(s) == 1 {
			return nil, fmt.Errorf("section %q must start with '@'", s)
		}
		out = append(out, s)
	}
	return out, nil
}

// parseAssignment splits "name=value" from --var.
func parseAssignment(s string) (string, float64, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", 0, fmt.Errorf("invalid --var %q (expected name=value)", s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid --var %q: %w", s, err)
	}
	return name, v, nil
}

// execTarget is one --exec value: a slot number or a section name.
type execTarget struct {
	slot int
	name string
}

func parseExecTarget(s string) (execTarget, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return execTarget{}, fmt.Errorf("empty --exec value")
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return execTarget{}, fmt.Errorf("invalid --exec slot %d", n)
		}
		return execTarget{slot: n}, nil
	}
	return execTarget{slot: -1, name: s}, nil
}

func (t execTarget) String() string {
	if t.name != "" {
		return t.name
	}
	return "#" + strconv.Itoa(t.slot)
}
