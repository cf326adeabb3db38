package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// PathResolver finds the catalog and config files relative to the binary,
// the working directory and the per-user config dir.
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
}

// NewPathResolver locates the running binary, following symlinks.
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	if execPath, err = filepath.EvalSymlinks(execPath); err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executableDir: filepath.Dir(execPath),
		homeDir:       homeDir,
		configDir:     userConfigDir(homeDir),
	}
	log.Debugf("PathResolver: binary in %s, config in %s", pr.executableDir, pr.configDir)
	return pr, nil
}

// userConfigDir honors XDG_CONFIG_HOME and APPDATA, and the macOS
// Application Support dir.
func userConfigDir(homeDir string) string {
	const app = "catalogserve"

	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, app)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", app)
	case "darwin":
		return filepath.Join(homeDir, "Library", "Application Support", app)
	default:
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, app)
		}
		return filepath.Join(homeDir, ".config", app)
	}
}

// CatalogCandidates lists where a catalog file is looked for, in order:
// the path itself when absolute, next to the executable, the working
// directory, then the config dir.
func (pr *PathResolver) CatalogCandidates(userSpecifiedPath string) []string {
	if filepath.IsAbs(userSpecifiedPath) {
		return []string{userSpecifiedPath}
	}

	candidates := []string{filepath.Join(pr.executableDir, userSpecifiedPath)}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, userSpecifiedPath))
	}
	return append(candidates, filepath.Join(pr.configDir, filepath.Base(userSpecifiedPath)))
}

// ResolveCatalog returns the first candidate that is a regular file, or the
// path itself so the caller can report a meaningful error.
func (pr *PathResolver) ResolveCatalog(userSpecifiedPath string) string {
	for _, path := range pr.CatalogCandidates(userSpecifiedPath) {
		if stat, err := os.Stat(path); err == nil && !stat.IsDir() {
			log.Debugf("Found catalog: %s", path)
			return path
		}
		log.Debugf("Catalog candidate not found: %s", path)
	}
	return userSpecifiedPath
}

// GetConfigPath places filename in the first writable dir among the config
// dir, ~/.catalogserve and the temp dir.
func (pr *PathResolver) GetConfigPath(filename string) (string, error) {
	dirs := []string{
		pr.configDir,
		filepath.Join(pr.homeDir, ".catalogserve"),
		filepath.Join(os.TempDir(), "catalogserve"),
	}
	for i, dir := range dirs {
		if !CheckDirStatus(dir).Writable {
			continue
		}
		path := filepath.Join(dir, filename)
		if i > 0 {
			log.Warnf("Using fallback config location: %s", path)
		}
		return path, nil
	}

	tempPath := filepath.Join(os.TempDir(), filename)
	log.Warnf("Using temporary config file: %s", tempPath)
	return tempPath, nil
}

// ConfigDir returns the per-user config directory.
func (pr *PathResolver) ConfigDir() string {
	return pr.configDir
}
