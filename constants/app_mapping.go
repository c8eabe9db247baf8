package constants

import (
	_ "embed"
	"errors"
	"strings"
	"sync"

	json "github.com/bytedance/sonic"
)

//go:embed app_aliases.json
var aliasesJSON []byte

var (
	pkg2AliasesMap map[string][]string
	alias2PkgMap   map[string]string
	errLoad        error
	once           = new(sync.Once)
)

func loadAliases() error {
	once.Do(func() {
		pkg2AliasesMap = make(map[string][]string)
		if err := json.Unmarshal(aliasesJSON, &pkg2AliasesMap); err != nil {
			errLoad = errors.Join(err, errors.New("failed to unmarshal embedded app_aliases.json"))
			return
		}

		alias2PkgMap = make(map[string]string)
		for pkg, aliases := range pkg2AliasesMap {
			for _, alias := range aliases {
				alias2PkgMap[strings.ToLower(alias)] = pkg
			}
		}
	})
	return errLoad
}

// PackageForApp resolves a human app name to an Android package name.
// Lookup is case-insensitive over the embedded alias table; a string that
// already looks like a package name is returned as-is.
func PackageForApp(name string) (string, bool) {
	if err := loadAliases(); err != nil {
		return "", false
	}
	if pkg, ok := alias2PkgMap[strings.ToLower(name)]; ok {
		return pkg, true
	}
	if strings.Count(name, ".") >= 2 && !strings.ContainsAny(name, " \t") {
		return name, true
	}
	return "", false
}

// KnownApps returns the alias table, app package -> aliases.
func KnownApps() (map[string][]string, error) {
	if err := loadAliases(); err != nil {
		return nil, err
	}
	return pkg2AliasesMap, nil
}
