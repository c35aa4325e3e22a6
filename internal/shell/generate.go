package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/instantdots/instantdots/internal/dotconfig"
)

// GeneratedEnvFilename is the script InjectSourceLines' managed block
// sources, grounded on the teacher's GenerateShellConfigs writing a
// single "DO NOT EDIT MANUALLY" script under the generated dir.
const GeneratedEnvFilename = "generated_env.sh"

// GenerateEnvScript writes a small shell script exporting one
// INSTANTDOTS_REPO_<NAME> variable per enabled repository plus
// INSTANTDOTS_REPOS_DIR, replacing the teacher's per-host alias/function
// generation with the plain environment surface spec.md's domain
// actually has. Returns the path written (or would-be path in a dry
// run).
func GenerateEnvScript(cfg *dotconfig.Config, dryRun bool) (string, error) {
	dir, err := GetGeneratedDir()
	if err != nil {
		return "", fmt.Errorf("failed to get generated scripts directory: %w", err)
	}
	path := filepath.Join(dir, GeneratedEnvFilename)

	var sb strings.Builder
	sb.WriteString("#!/bin/sh\n")
	sb.WriteString("# instantdots generated environment - do not edit manually\n\n")
	fmt.Fprintf(&sb, "export INSTANTDOTS_REPOS_DIR=%q\n", cfg.ReposDir)

	names := make([]string, 0, len(cfg.Repos))
	byName := make(map[string]dotconfig.Repo, len(cfg.Repos))
	for _, r := range cfg.Repos {
		if !r.Enabled {
			continue
		}
		names = append(names, r.Name)
		byName[r.Name] = r
	}
	sort.Strings(names)
	for _, name := range names {
		varName := "INSTANTDOTS_REPO_" + sanitizeEnvName(name)
		fmt.Fprintf(&sb, "export %s=%q\n", varName, filepath.Join(cfg.ReposDir, byName[name].Name))
	}

	if dryRun {
		fmt.Printf("[dry run] would write generated env script to: %s\n", path)
		return path, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create generated scripts directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write generated env script %s: %w", path, err)
	}
	return path, nil
}

func sanitizeEnvName(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToUpper(name) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}
