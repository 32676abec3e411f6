//go:build linux || darwin

package cipher

import (
	"fmt"
	"os"
	"path/filepath"
	"plugin"
	"runtime"
	"sort"
	"strings"
)

// LoadPlugins opens each .so (or directory of them) and registers the
// functions found in its exported Ciphers map.
func LoadPlugins(reg *Registry, paths []string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		resolved, err := resolvePluginPaths(path)
		if err != nil {
			return err
		}
		for _, pluginPath := range resolved {
			p, err := plugin.Open(pluginPath)
			if err != nil {
				return fmt.Errorf("open plugin %s: %w", pluginPath, err)
			}
			sym, err := p.Lookup("Ciphers")
			if err != nil {
				return fmt.Errorf("plugin %s: missing Ciphers symbol", pluginPath)
			}
			if err := registerPluginSymbol(reg, pluginPath, sym); err != nil {
				return err
			}
		}
	}
	return nil
}

func resolvePluginPaths(path string) ([]string, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return resolvePluginsInDir(path)
	}
	if fileExists(path) {
		return []string{path}, nil
	}
	base := strings.TrimSuffix(path, ".so")
	candidates := []string{
		fmt.Sprintf("%s.%s.%s.so", base, runtime.GOOS, runtime.GOARCH),
		fmt.Sprintf("%s.%s.so", base, runtime.GOARCH),
	}
	for _, cand := range candidates {
		if fileExists(cand) {
			return []string{cand}, nil
		}
	}
	return nil, fmt.Errorf("plugin not found: %s (tried %s)", path, strings.Join(candidates, ", "))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func resolvePluginsInDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read plugin dir %s: %w", dir, err)
	}
	var matches []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".so") {
			continue
		}
		matches = append(matches, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(matches)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no plugins found in %s", dir)
	}
	return matches, nil
}

func registerPluginSymbol(reg *Registry, path string, sym any) error {
	var fns map[string]func(string) string
	switch v := sym.(type) {
	case map[string]func(string) string:
		fns = v
	case *map[string]func(string) string:
		fns = *v
	default:
		return fmt.Errorf("plugin %s: Ciphers has incompatible type", path)
	}
	for name, fn := range fns {
		if fn == nil {
			continue
		}
		reg.Register(NewFunc(name, fn))
	}
	return nil
}
