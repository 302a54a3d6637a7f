// Package packager builds upload archives for the Claude Web/App "Upload
// skill" flow: one <bundle>.zip per skill bundle.
package packager

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/dbcli/deploy-skills/internal/source"
	"github.com/dbcli/deploy-skills/internal/ui"
	"github.com/dbcli/deploy-skills/internal/util"
)

// ArchiveManifestName is the manifest entry name inside an upload archive.
// Claude expects exactly this casing regardless of the name on disk.
const ArchiveManifestName = "Skill.md"

// ErrBundleNotFound is returned when the requested bundle folder does not
// exist in the source.
var ErrBundleNotFound = errors.New("skill not found")

// PackageBundle writes <outDir>/<name>.zip from the bundle folder name in
// src.
//
// The bundle is first copied into a temporary staging directory, which is
// removed on every exit path. An existing archive at the destination is
// deleted before writing. A bundle without a manifest is still packaged,
// with a warning.
//
// Parameters:
//   - name: Bundle folder name
//   - src: Resolved skills source
//   - outDir: Output directory, created if missing
//
// Returns:
//   - string: Path of the written archive
//   - error: ErrBundleNotFound, or any I/O failure
func PackageBundle(name string, src *source.Source, outDir string) (string, error) {
	bundleDir := src.Path(name)
	if info, err := os.Stat(bundleDir); err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrBundleNotFound, bundleDir)
	}

	if err := os.MkdirAll(outDir, util.DirPermissions); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	zipPath := filepath.Join(outDir, name+".zip")
	if err := os.Remove(zipPath); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to remove stale archive: %w", err)
	}

	tempRoot, err := os.MkdirTemp("", "claude-skill-"+util.TempPrefix(name)+"-")
	if err != nil {
		return "", fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(tempRoot)

	staged := filepath.Join(tempRoot, name)
	if err := util.CopyTree(bundleDir, staged); err != nil {
		return "", fmt.Errorf("failed to stage %s: %w", name, err)
	}

	if source.FindManifest(staged) == "" {
		ui.PrintWarning("%s not found in skill folder (expected by Claude upload): %s", ArchiveManifestName, bundleDir)
	}

	if err := writeArchive(zipPath, name, staged); err != nil {
		os.Remove(zipPath)
		return "", err
	}
	log.Debug("archive written", "bundle", name, "path", zipPath)
	return zipPath, nil
}

// writeArchive zips the staged bundle directory as <name>/... entries.
func writeArchive(zipPath, name, staged string) error {
	zipFile, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("failed to create zip file: %w", err)
	}

	zipWriter := zip.NewWriter(zipFile)
	err = addEntries(zipWriter, name, staged)

	// Close writes the central directory; a failure here means a corrupt archive.
	if closeErr := zipWriter.Close(); closeErr != nil {
		zipFile.Close()
		if err != nil {
			return fmt.Errorf("failed to create zip: %w (also failed to close: %v)", err, closeErr)
		}
		return fmt.Errorf("failed to finalize zip archive: %w", closeErr)
	}
	if closeErr := zipFile.Close(); closeErr != nil {
		if err != nil {
			return fmt.Errorf("failed to create zip: %w (also failed to close file: %v)", err, closeErr)
		}
		return fmt.Errorf("failed to close zip file: %w", closeErr)
	}
	if err != nil {
		return fmt.Errorf("failed to create zip: %w", err)
	}
	return nil
}

func addEntries(zw *zip.Writer, name, staged string) error {
	if _, err := zw.Create(name + "/"); err != nil {
		return err
	}

	return filepath.WalkDir(staged, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(staged, p)
		if err != nil {
			return err
		}
		entry := EntryName(name, filepath.ToSlash(rel))

		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = entry
		header.Method = zip.Deflate

		w, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}
		file, err := os.Open(p)
		if err != nil {
			return err
		}
		defer file.Close()

		_, err = io.Copy(w, file)
		return err
	})
}

// EntryName returns the archive entry for the slash-separated path rel
// inside bundle name. Any manifest file, at any depth, is renamed to
// ArchiveManifestName.
func EntryName(name, rel string) string {
	dir, base := path.Split(rel)
	if source.IsManifestName(base) {
		base = ArchiveManifestName
	}
	return name + "/" + dir + base
}

// Result is the outcome for one bundle in a batch.
type Result struct {
	Name string `json:"name"`
	Path string `json:"path,omitempty"`
	Err  error  `json:"-"`

	// Error mirrors Err for JSON output.
	Error string `json:"error,omitempty"`
}

// Report collects the results of a batch.
type Report struct {
	OutDir  string   `json:"out_dir"`
	Results []Result `json:"results"`
}

// Failed counts the bundles that could not be packaged.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Err joins every per-bundle failure.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Name, res.Err))
		}
	}
	return errors.Join(errs...)
}

// PackageNames packages each named bundle in order. A failure is recorded
// and printed, and the remaining bundles are still packaged.
func PackageNames(names []string, src *source.Source, outDir string) *Report {
	report := &Report{OutDir: outDir}
	for _, name := range names {
		res := Result{Name: name}
		created, err := PackageBundle(name, src, outDir)
		if err != nil {
			res.Err = err
			res.Error = err.Error()
			ui.PrintError("%v", err)
		} else {
			res.Path = created
			ui.PrintSuccess("Created: %s", created)
		}
		report.Results = append(report.Results, res)
	}
	return report
}

// PackageAll packages every bundle folder of src in alphabetical order.
// Folders without a manifest are packaged with a warning. A source with
// no bundle folders yields an empty report and an error.
func PackageAll(src *source.Source, outDir string) (*Report, error) {
	names, err := src.BundleDirs()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return &Report{OutDir: outDir}, errors.New("no skills to package")
	}
	return PackageNames(names, src, outDir), nil
}

