package pipeline

import (
	"os"
	"path/filepath"

	"github.com/ontokit/axigen/errors"
)

// writeArtifact commits the rendered artifact atomically: the full content
// is written to a temp file in the target directory, synced, then renamed
// into place. A cancelled or failed run never leaves a partial artifact
// visible.
func writeArtifact(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(errors.ErrArtifactWrite, "create %s: %v", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrapf(errors.ErrArtifactWrite, "temp file in %s: %v", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(errors.ErrArtifactWrite, "write %s: %v", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrapf(errors.ErrArtifactWrite, "sync %s: %v", tmpName, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return errors.Wrapf(errors.ErrArtifactWrite, "chmod %s: %v", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(errors.ErrArtifactWrite, "close %s: %v", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(errors.ErrArtifactWrite, "rename into %s: %v", path, err)
	}
	return nil
}
