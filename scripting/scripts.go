package scripting

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

//go:embed scripts/*.js
var builtins embed.FS

// BuiltinPrefix may precede the name of an embedded script.
const BuiltinPrefix = "makepdf:"

var ErrUnknownScript = errors.New("unknown script")

// Builtins lists the names of the embedded scripts.
func Builtins() []string {
	entries, _ := fs.ReadDir(builtins, "scripts")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".js"))
	}
	sort.Strings(names)
	return names
}

// Load resolves name to script source. Embedded scripts are found by bare
// name or with BuiltinPrefix; anything else is read from disk. The returned
// label identifies the script in stack traces.
func Load(name string) (label, src string, err error) {
	bare, prefixed := strings.CutPrefix(name, BuiltinPrefix)
	if data, err := builtins.ReadFile(path.Join("scripts", bare+".js")); err == nil && !strings.ContainsAny(bare, "/\\") {
		return BuiltinPrefix + bare, string(data), nil
	}
	if prefixed {
		return "", "", fmt.Errorf("%w %q (built-in scripts: %s)", ErrUnknownScript, name, strings.Join(Builtins(), ", "))
	}
	data, err := os.ReadFile(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !strings.HasSuffix(name, ".js") {
			return "", "", fmt.Errorf("%w %q (built-in scripts: %s)", ErrUnknownScript, name, strings.Join(Builtins(), ", "))
		}
		return "", "", fmt.Errorf("read script %s: %w", name, err)
	}
	return name, string(data), nil
}
