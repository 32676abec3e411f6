//go:build !linux && !darwin

package cipher

import "fmt"

func LoadPlugins(reg *Registry, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	return fmt.Errorf("plugins are only supported on linux and darwin")
}
