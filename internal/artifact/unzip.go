package artifact

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/daryltucker/ruversi-tools/internal/output"
)

// Unzipper extracts downloaded archives into destDir.
type Unzipper struct {
	archiveDir string
	destDir    string
	prefix     string
}

// NewUnzipper creates an Unzipper.
func NewUnzipper(archiveDir, destDir, prefix string) *Unzipper {
	return &Unzipper{archiveDir: archiveDir, destDir: destDir, prefix: prefix}
}

// Unzip extracts every entry of <archiveDir>/<name>, keeping relative paths
// and overwriting existing files. Names without the prefix are ignored.
// It returns the number of files written.
func (u *Unzipper) Unzip(name string) (int, error) {
	if !strings.HasPrefix(name, u.prefix) {
		return 0, nil
	}

	output.Logger.Info("Unzipping", "file", name, "dest", u.destDir)

	zr, err := zip.OpenReader(filepath.Join(u.archiveDir, name))
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", name, err)
	}
	defer zr.Close()

	files := 0
	for _, f := range zr.File {
		wrote, err := u.extract(f)
		if err != nil {
			return files, fmt.Errorf("extract %s from %s: %w", f.Name, name, err)
		}
		if wrote {
			files++
		}
	}
	return files, nil
}

func (u *Unzipper) extract(f *zip.File) (bool, error) {
	target := filepath.Join(u.destDir, f.Name)
	rel, err := filepath.Rel(u.destDir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(f.Name) {
		return false, fmt.Errorf("entry escapes destination")
	}

	if f.FileInfo().IsDir() {
		return false, os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return false, err
	}

	rc, err := f.Open()
	if err != nil {
		return false, err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return false, err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return false, err
	}
	return true, out.Close()
}
