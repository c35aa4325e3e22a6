// Package dotmeta resolves a repository's RepoMetaData either from its
// embedded config entry (external/yadm-style repos) or from an
// instantdots.toml file at the repository root (spec §4.2).
package dotmeta

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/instantdots/instantdots/internal/dotconfig"
	"github.com/instantdots/instantdots/internal/doterr"
)

// MetadataFileName is the on-disk file name read from a repository root.
const MetadataFileName = "instantdots.toml"

// Resolve produces the effective RepoMetadata for repo. If repo carries
// embedded metadata it is returned directly (step 1 of spec §4.2's
// algorithm); otherwise instantdots.toml is read from repoPath.
func Resolve(repo dotconfig.Repo, repoPath string) (dotconfig.RepoMetadata, error) {
	if repo.Metadata != nil {
		meta := *repo.Metadata
		fillDefaults(&meta)
		return meta, nil
	}

	metaPath := filepath.Join(repoPath, MetadataFileName)
	data, err := os.ReadFile(metaPath)
	if os.IsNotExist(err) {
		return dotconfig.RepoMetadata{}, fmt.Errorf("%w: %s", doterr.ErrMetadataMissing, metaPath)
	}
	if err != nil {
		return dotconfig.RepoMetadata{}, fmt.Errorf("reading %s: %w", metaPath, err)
	}

	var meta dotconfig.RepoMetadata
	if err := toml.Unmarshal(data, &meta); err != nil {
		return dotconfig.RepoMetadata{}, fmt.Errorf("%w: %s: %v", doterr.ErrMetadataInvalid, metaPath, err)
	}
	if meta.Name == "" {
		return dotconfig.RepoMetadata{}, fmt.Errorf("%w: %s: name is blank", doterr.ErrMetadataInvalid, metaPath)
	}

	fillDefaults(&meta)
	return meta, nil
}

// fillDefaults applies step 3 of spec §4.2's algorithm.
func fillDefaults(meta *dotconfig.RepoMetadata) {
	if len(meta.DotsDirs) == 0 {
		meta.DotsDirs = []string{"dots"}
	}
}

// IsExternal reports whether meta describes a fixed-structure,
// yadm/stow-compatible repo (dots_dirs == ["."]). Such repos must reject
// AddDotsDir/RemoveDotsDir per spec §9's open question resolution.
func IsExternal(meta dotconfig.RepoMetadata) bool {
	return len(meta.DotsDirs) == 1 && meta.DotsDirs[0] == "."
}

// AddDotsDir appends name to the instantdots.toml at repoPath, rewriting
// the file atomically (temp + rename, the teacher's habit throughout
// internal/config).
func AddDotsDir(repoPath, name string) error {
	meta, metaPath, err := readForMutation(repoPath)
	if err != nil {
		return err
	}
	if IsExternal(*meta) {
		return fmt.Errorf("%w: external repos have a fixed structure", doterr.ErrSubdirNotInMeta)
	}
	for _, d := range meta.DotsDirs {
		if d == name {
			return fmt.Errorf("dots dir %q already declared", name)
		}
	}
	meta.DotsDirs = append(meta.DotsDirs, name)
	return writeMeta(metaPath, meta)
}

// RemoveDotsDir removes name from the instantdots.toml at repoPath. It
// refuses to remove the last entry (spec §4.2). If deleteOnDisk is true,
// the subdirectory itself is also removed from the repository working
// tree.
func RemoveDotsDir(repoPath, name string, deleteOnDisk bool) error {
	meta, metaPath, err := readForMutation(repoPath)
	if err != nil {
		return err
	}
	if IsExternal(*meta) {
		return fmt.Errorf("%w: external repos have a fixed structure", doterr.ErrSubdirNotInMeta)
	}
	if len(meta.DotsDirs) <= 1 {
		return fmt.Errorf("cannot remove the last dots dir %q", name)
	}

	idx := -1
	for i, d := range meta.DotsDirs {
		if d == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", doterr.ErrSubdirNotInMeta, name)
	}
	meta.DotsDirs = append(meta.DotsDirs[:idx], meta.DotsDirs[idx+1:]...)

	if err := writeMeta(metaPath, meta); err != nil {
		return err
	}

	if deleteOnDisk {
		if err := os.RemoveAll(filepath.Join(repoPath, name)); err != nil {
			return fmt.Errorf("removing dots dir %s from disk: %w", name, err)
		}
	}
	return nil
}

func readForMutation(repoPath string) (*dotconfig.RepoMetadata, string, error) {
	metaPath := filepath.Join(repoPath, MetadataFileName)
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", doterr.ErrMetadataMissing, metaPath)
	}
	var meta dotconfig.RepoMetadata
	if err := toml.Unmarshal(data, &meta); err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", doterr.ErrMetadataInvalid, metaPath, err)
	}
	return &meta, metaPath, nil
}

func writeMeta(metaPath string, meta *dotconfig.RepoMetadata) error {
	dir := filepath.Dir(metaPath)
	tmp, err := os.CreateTemp(dir, ".instantdots-tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp metadata file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	enc := toml.NewEncoder(tmp)
	if err := enc.Encode(meta); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding metadata: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, metaPath)
}
