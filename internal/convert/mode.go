package convert

import (
	"path/filepath"
	"slices"
	"strings"
)

// Mode selects the conversion direction from the command line arguments.
type Mode int

const (
	ModeUsage      Mode = iota // nothing recognized
	ModeRegistry               // registry -> containers
	ModeContainers             // containers -> registry
)

func (m Mode) String() string {
	switch m {
	case ModeRegistry:
		return "registry"
	case ModeContainers:
		return "containers"
	default:
		return "usage"
	}
}

// DetectMode picks registry mode when the first argument is an .ini file,
// otherwise containers mode when any argument has containerExt.
func DetectMode(args []string, containerExt string) Mode {
	if len(args) == 0 {
		return ModeUsage
	}
	if strings.EqualFold(filepath.Ext(args[0]), ".ini") {
		return ModeRegistry
	}
	if slices.ContainsFunc(args, func(arg string) bool {
		return strings.EqualFold(filepath.Ext(arg), containerExt)
	}) {
		return ModeContainers
	}
	return ModeUsage
}
