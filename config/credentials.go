package config

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// APIKeyVar is the primary credential variable. Extra keys may be supplied
// as APIKeyVar + "_" + suffix.
const APIKeyVar = "GROQ_API_KEY"

// LoadCredentials collects API keys from environ and the .env file in dir.
// Process variables win over .env entries of the same name. The .env file is
// read without touching the process environment. Keys are returned in a
// stable order (primary first, then suffixed names sorted) with duplicates and
// blanks removed.
func LoadCredentials(dir string, environ []string) []string {
	vars := map[string]string{}

	if fileVars, err := godotenv.Read(filepath.Join(dir, ".env")); err == nil {
		for k, v := range fileVars {
			vars[k] = v
		}
	}

	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			vars[k] = v
		}
	}

	var names []string
	for k := range vars {
		if strings.HasPrefix(k, APIKeyVar+"_") {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	names = append([]string{APIKeyVar}, names...)

	seen := map[string]bool{}
	var keys []string
	for _, name := range names {
		v := strings.TrimSpace(vars[name])
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		keys = append(keys, v)
	}
	return keys
}
