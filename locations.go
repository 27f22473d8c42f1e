// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlinit

// ScriptLocations returns the effective script locations.
//
// A non-nil explicit list always wins, including an empty one (no scripts).
// A nil list falls back to a platform-specific script followed by a generic
// one, both optional:
//
//	optional:classpath*:{fallback}-{platform}.sql
//	optional:classpath*:{fallback}.sql
func ScriptLocations(explicit []string, fallback, platform string) []string {
	if explicit != nil {
		return explicit
	}
	return []string{
		optionalPrefix + classpathAllPrefix + fallback + "-" + platform + ".sql",
		optionalPrefix + classpathAllPrefix + fallback + ".sql",
	}
}
