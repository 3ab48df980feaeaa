package renderq

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml"
)

// Keys of the settings file.
const (
	settingsSection   = "Paths"
	rendererPathKey   = "MAYA_PATH"
	pluginPathKey     = "QT_PLUGIN_PATH"
	pathEnv           = "PATH"
	pluginPathEnv     = "QT_PLUGIN_PATH"
	defaultConfigFile = "config.toml"
)

// Settings are paths a renderer needs to run.
type Settings struct {
	// RendererPath is the renderer's bin directory.
	// It is prepended to PATH of the renderer's environment.
	RendererPath string `json:"MAYA_PATH"`

	// PluginPath is set as QT_PLUGIN_PATH of the renderer's environment.
	PluginPath string `json:"QT_PLUGIN_PATH"`
}

// DefaultSettings returns settings for a default Maya 2024 installation.
func DefaultSettings() Settings {
	return Settings{
		RendererPath: `C:\Program Files\Autodesk\Maya2024\bin`,
		PluginPath:   `C:\Program Files\Autodesk\Maya2024\plugins`,
	}
}

// Environ returns a copy of base with the settings applied.
// base is usually os.Environ().
func (s Settings) Environ(base []string) []string {
	env := make([]string, 0, len(base)+2)
	hasPath := false
	for _, kv := range base {
		k, v, _ := strings.Cut(kv, "=")
		switch {
		case envKeyEqual(k, pathEnv):
			hasPath = true
			env = append(env, k+"="+prependPath(s.RendererPath, v))
		case envKeyEqual(k, pluginPathEnv):
			// replaced below
		default:
			env = append(env, kv)
		}
	}
	if !hasPath {
		env = append(env, pathEnv+"="+s.RendererPath)
	}
	env = append(env, pluginPathEnv+"="+s.PluginPath)
	return env
}

func prependPath(dir, list string) string {
	if dir == "" {
		return list
	}
	if list == "" {
		return dir
	}
	return dir + string(os.PathListSeparator) + list
}

// envKeyEqual reports whether two environment keys are the same.
// Windows environment keys are case insensitive.
func envKeyEqual(a, b string) bool {
	if runtime.GOOS == "windows" {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// SettingsFile is a TOML file that keeps Settings in it's [Paths] table.
type SettingsFile struct {
	Path string
}

// NewSettingsFile returns a SettingsFile at path.
// Empty path means config.toml of the working directory.
func NewSettingsFile(path string) *SettingsFile {
	if path == "" {
		path = defaultConfigFile
	}
	return &SettingsFile{Path: path}
}

// Load loads settings from the file.
// Missing file, table or keys are filled with DefaultSettings.
func (f *SettingsFile) Load() (Settings, error) {
	s := DefaultSettings()
	tree, err := f.tree()
	if err != nil {
		return s, err
	}
	if v, ok := tree.Get(settingsSection + "." + rendererPathKey).(string); ok {
		s.RendererPath = v
	}
	if v, ok := tree.Get(settingsSection + "." + pluginPathKey).(string); ok {
		s.PluginPath = v
	}
	return s, nil
}

// Save writes the settings into the file.
// Other tables and keys of the file are kept.
func (f *SettingsFile) Save(s Settings) error {
	tree, err := f.tree()
	if err != nil {
		return err
	}
	tree.Set(settingsSection+"."+rendererPathKey, s.RendererPath)
	tree.Set(settingsSection+"."+pluginPathKey, s.PluginPath)
	data, err := tree.ToTomlString()
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	err = os.WriteFile(f.Path, []byte(data), 0644)
	if err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

// tree reads the file as a toml tree.
// It returns an empty tree when the file doesn't exist.
func (f *SettingsFile) tree() (*toml.Tree, error) {
	tree, err := toml.LoadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return toml.TreeFromMap(map[string]interface{}{})
		}
		return nil, fmt.Errorf("load settings %v: %w", f.Path, err)
	}
	return tree, nil
}
