package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// expandPath expands $VARS and a leading ~ in p. On Windows %VAR% and ~\
// are understood as well.
func expandPath(p string) string {
	if p == "" {
		return p
	}

	expanded := os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		expanded = expandPercentVars(expanded)
	}

	if expanded != "~" && !strings.HasPrefix(expanded, "~/") &&
		!(runtime.GOOS == "windows" && strings.HasPrefix(expanded, `~\`)) {
		return expanded
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return expanded
	}
	if expanded == "~" {
		return home
	}
	return filepath.Join(home, expanded[2:])
}

// expandPercentVars replaces %NAME% with the variable's value. Unknown
// names are left untouched.
func expandPercentVars(p string) string {
	parts := strings.Split(p, "%")
	if len(parts) < 3 {
		return p
	}

	var b strings.Builder
	b.WriteString(parts[0])
	i := 1
	for ; i < len(parts)-1; i++ {
		name := parts[i]
		if val, ok := os.LookupEnv(name); ok && name != "" {
			b.WriteString(val)
		} else {
			b.WriteString("%" + name + "%")
		}
		b.WriteString(parts[i+1])
		i++
	}
	if i == len(parts)-1 {
		b.WriteByte('%')
		b.WriteString(parts[i])
	}
	return b.String()
}
