package main

import (
	"context"
	"errors"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/dbcli/deploy-skills/internal/binary"
	"github.com/dbcli/deploy-skills/internal/install"
	"github.com/dbcli/deploy-skills/internal/install/pathenv"
	"github.com/dbcli/deploy-skills/internal/source"
	"github.com/dbcli/deploy-skills/internal/ui"
)

var installFlags struct {
	dir         string
	addToPath   bool
	fixUserPath bool
}

// installCmd installs dbcli, its helpers and the skills source into the
// tools directory.
var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install dbcli and the skills source into ~/tools/dbcli",
	Long: `Install the dbcli executable, this deployer and the skills source into
~/tools/dbcli, optionally adding that directory to PATH.

The executable is searched in dist-<os>-<arch>/ release folders, next to
this program and in local build output. Every file next to it (except
skills/) is installed. When it is only found on PATH, the executable is
installed alone.

PATH (--add-to-path):
  Unix     appends an export to ~/.profile (and ~/.zshrc for zsh users)
  Windows  appends to the user PATH through PowerShell

EXAMPLES:
  dbcli-deploy install                                # Install only
  dbcli-deploy install --add-to-path                  # Install and update PATH
  dbcli-deploy install --add-to-path --fix-user-path  # Also dedupe the Windows user PATH`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnvironment()
		if err != nil {
			return err
		}
		return installTools(cmd.Context(), env, installOptions{
			dir:         installFlags.dir,
			addToPath:   installFlags.addToPath,
			fixUserPath: installFlags.fixUserPath,
		})
	},
}

func init() {
	f := installCmd.Flags()
	f.StringVar(&installFlags.dir, "dir", "", "Installation directory (default: ~/tools/dbcli)")
	f.BoolVar(&installFlags.addToPath, "add-to-path", false, "Add the installation directory to PATH")
	f.BoolVar(&installFlags.fixUserPath, "fix-user-path", false, "Normalize the user PATH and ensure a trailing ';' (Windows only)")
}

type installOptions struct {
	dir         string
	addToPath   bool
	fixUserPath bool
}

// pathEditor returns the PATH editor for goos, or nil unless
// --add-to-path was given.
func (o installOptions) pathEditor(goos, home string) pathenv.Editor {
	if !o.addToPath {
		return nil
	}
	return pathenv.ForPlatform(goos, home, o.fixUserPath)
}

// installTools locates dbcli and installs it with the resolved source.
// A missing source only skips the skills copy.
func installTools(ctx context.Context, env *environment, o installOptions) error {
	ui.PrintHeader("DbCli Install")

	exe, exeOnly, err := locateForInstall(*binary.NewLocator(env.exeDir))
	if err != nil {
		ui.PrintError("DbCli executable not found")
		ui.PrintWarning("Build the project first: dotnet build -c Release")
		return err
	}
	ui.PrintInfo("Found: %s", exe)
	if exeOnly {
		ui.PrintWarning("Found on PATH only; installing the executable without its directory")
	}

	src, err := source.Resolve(env.candidates())
	if errors.Is(err, source.ErrNotFound) {
		ui.PrintWarning("skills/ source not found; installing without skills")
	}

	dir := o.dir
	if dir == "" {
		dir = install.DefaultDir(env.home)
	}
	opts := install.Options{
		Exe:        exe,
		ExeOnly:    exeOnly,
		HelperDir:  env.exeDir,
		Source:     src,
		Dir:        expandHome(dir, env.home),
		PathEditor: o.pathEditor(runtime.GOOS, env.home),
	}

	if _, err := install.Install(ctx, opts); err != nil {
		ui.PrintError("Install failed: %v", err)
		return err
	}
	ui.Println()
	return nil
}

// locateForInstall searches the release, tool and build directories
// first. A dbcli found there is installed with its sibling files. One
// found only through the PATH fallback is reported as exeOnly.
func locateForInstall(l binary.Locator) (exe string, exeOnly bool, err error) {
	local := l
	local.LookPath = nil
	if found, err := local.Locate(); err == nil {
		return found, false, nil
	}
	exe, err = l.Locate()
	if err != nil {
		return "", false, err
	}
	return exe, true, nil
}
