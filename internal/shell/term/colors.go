// Package term renders play progress: a fixed header, one status row per
// container, updated in place on terminals and appended line by line
// everywhere else.
package term

// =============================================================================
// ANSI Helpers
// =============================================================================

const ansiReset = "\x1b[;0m"

// Red renders s in bold red.
func Red(s string) string {
	return "\x1b[31;1m" + s + ansiReset
}

// Green renders s in bold green.
func Green(s string) string {
	return "\x1b[32;1m" + s + ansiReset
}

// Color renders s green when ok, red otherwise.
func Color(ok bool, s string) string {
	if ok {
		return Green(s)
	}
	return Red(s)
}

// Up returns "up" or "down" for a boolean state.
func Up(ok bool) string {
	if ok {
		return "up"
	}
	return "down"
}
