// Package install copies the dbcli executable, its deployment helpers and
// the skills source into the tools directory (~/tools/dbcli) so that
// later deployments work from any directory.
package install

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/dbcli/deploy-skills/internal/install/pathenv"
	"github.com/dbcli/deploy-skills/internal/source"
	"github.com/dbcli/deploy-skills/internal/ui"
	"github.com/dbcli/deploy-skills/internal/util"
)

// HelperFiles are copied from the helper directory when present.
var HelperFiles = []string{
	"dbcli-deploy",
	"dbcli-deploy.exe",
	"deploy-skills.ps1",
	"deploy-skills.py",
	"install-dbcli.ps1",
	"install-dbcli.py",
}

// DocFiles are copied from the helper directory when present.
var DocFiles = []string{"README.md", "LICENSE"}

// ErrNoExecutable is returned when Options.Exe is empty.
var ErrNoExecutable = errors.New("dbcli executable not found")

// DefaultDir returns ~/tools/dbcli for home.
func DefaultDir(home string) string {
	return filepath.Join(home, "tools", "dbcli")
}

// Options configures an installation.
type Options struct {
	// Exe is the located dbcli executable. Every sibling entry of its
	// directory except skills/ is installed, unless ExeOnly is set.
	Exe string

	// ExeOnly installs Exe alone. Set when Exe was found on PATH, whose
	// directory is shared with unrelated programs.
	ExeOnly bool

	// HelperDir holds helper scripts and docs (normally the directory of
	// this tool's executable).
	HelperDir string

	// Source is copied to <Dir>/skills. Nil skips the skills copy.
	Source *source.Source

	// Dir is the installation directory.
	Dir string

	// PathEditor adds Dir to PATH. Nil skips PATH editing.
	PathEditor pathenv.Editor
}

// Result describes an installation.
type Result struct {
	Dir     string          `json:"dir"`
	Copied  []string        `json:"copied"`
	Skipped []string        `json:"skipped,omitempty"`
	Path    *pathenv.Result `json:"path,omitempty"`
}

// Install performs the installation described by opts.
//
// Parameters:
//   - ctx: Passed to the PATH editor
//   - opts: Installation options
//
// Returns:
//   - *Result: What was copied and skipped
//   - error: ErrNoExecutable or the first copy failure; PATH failures are
//     reported as warnings only
func Install(ctx context.Context, opts Options) (*Result, error) {
	if opts.Exe == "" {
		return nil, ErrNoExecutable
	}
	if opts.Dir == "" {
		return nil, errors.New("install directory is required")
	}

	ui.PrintInfo("Installing to: %s", opts.Dir)
	if err := os.MkdirAll(opts.Dir, util.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create install directory: %w", err)
	}
	res := &Result{Dir: opts.Dir}

	exeDir := filepath.Dir(opts.Exe)
	if util.SamePath(exeDir, opts.Dir) {
		ui.PrintWarning("Source and install directory are the same; skipping binary copy")
		res.Skipped = append(res.Skipped, "binaries")
	} else if opts.ExeOnly {
		ui.PrintInfo("Copying executable: %s", opts.Exe)
		if err := util.CopyFile(opts.Exe, filepath.Join(opts.Dir, filepath.Base(opts.Exe))); err != nil {
			return res, fmt.Errorf("copying %s: %w", filepath.Base(opts.Exe), err)
		}
		res.Copied = append(res.Copied, filepath.Base(opts.Exe))
	} else {
		ui.PrintInfo("Copying binaries from: %s", exeDir)
		if err := copyBinaries(exeDir, opts.Dir); err != nil {
			return res, err
		}
		res.Copied = append(res.Copied, filepath.Base(opts.Exe))
	}

	if opts.HelperDir != "" {
		for _, name := range append(append([]string{}, HelperFiles...), DocFiles...) {
			copied, err := copyIfPresent(filepath.Join(opts.HelperDir, name), filepath.Join(opts.Dir, name))
			if err != nil {
				return res, fmt.Errorf("copying %s: %w", name, err)
			}
			if copied {
				res.Copied = append(res.Copied, name)
				ui.PrintDim("  - %s", name)
			}
		}
	}

	if opts.Source != nil {
		dest := filepath.Join(opts.Dir, source.DirName)
		if util.SamePath(opts.Source.Root, dest) {
			ui.PrintWarning("Skills already in tools directory; skipping skills copy")
			res.Skipped = append(res.Skipped, source.DirName)
		} else {
			if err := os.RemoveAll(dest); err != nil {
				return res, fmt.Errorf("removing old skills: %w", err)
			}
			if err := util.CopyTree(opts.Source.Root, dest); err != nil {
				return res, fmt.Errorf("copying skills: %w", err)
			}
			res.Copied = append(res.Copied, source.DirName+"/")
			ui.PrintDim("  - %s/ (source)", source.DirName)
		}
	}

	ui.PrintSuccess("Installed %s to %s", filepath.Base(opts.Exe), opts.Dir)

	if opts.PathEditor != nil {
		res.Path = ensurePath(ctx, opts.PathEditor, opts.Dir)
	}
	return res, nil
}

// copyBinaries mirrors every entry of exeDir except skills/ into dir,
// replacing existing entries.
func copyBinaries(exeDir, dir string) error {
	entries, err := os.ReadDir(exeDir)
	if err != nil {
		return fmt.Errorf("listing %s: %w", exeDir, err)
	}
	for _, entry := range entries {
		if entry.Name() == source.DirName {
			continue
		}
		src := filepath.Join(exeDir, entry.Name())
		dst := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(dst); err != nil {
			return fmt.Errorf("replacing %s: %w", dst, err)
		}
		if entry.IsDir() {
			err = util.CopyTree(src, dst)
		} else {
			err = util.CopyFile(src, dst)
		}
		if err != nil {
			return fmt.Errorf("copying %s: %w", entry.Name(), err)
		}
		log.Debug("installed", "entry", entry.Name())
	}
	return nil
}

func copyIfPresent(src, dst string) (bool, error) {
	info, err := os.Stat(src)
	if err != nil || !info.Mode().IsRegular() {
		return false, nil
	}
	if util.SamePath(src, dst) {
		return false, nil
	}
	return true, util.CopyFile(src, dst)
}

func ensurePath(ctx context.Context, editor pathenv.Editor, dir string) *pathenv.Result {
	res, err := editor.Ensure(ctx, dir)
	if err != nil {
		ui.PrintError("Failed to modify PATH: %v", err)
		ui.PrintWarning("Add manually: %s", dir)
		return res
	}
	if res.Normalized {
		ui.PrintSuccess("Normalized user PATH")
	}
	if res.AlreadyPresent {
		ui.PrintSuccess("Already in PATH")
		return res
	}
	for _, updated := range res.Updated {
		ui.PrintSuccess("Added to PATH in %s", updated)
	}
	ui.PrintWarning("Restart your terminal (or source your profile) for changes to take effect")
	return res
}
