// Copyright (c) 2026 Michael D Henderson. All rights reserved.

package sqlinit

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	optionalPrefix     = "optional:"
	classpathAllPrefix = "classpath*:"
	classpathPrefix    = "classpath:"
	filePrefix         = "file:"
)

// ErrScriptNotFound is returned when a required script location matches nothing.
var ErrScriptNotFound = errors.New("no sql scripts found")

// Resource is a single resolved script.
type Resource struct {
	// Location is the location the resource was resolved from.
	Location string
	// Name is the resolved path of the resource.
	Name string

	fsys   fs.FS
	fsName string
}

// Read returns the raw contents of the resource.
func (r Resource) Read() ([]byte, error) {
	return fs.ReadFile(r.fsys, r.fsName)
}

func (r Resource) String() string { return r.Name }

// ResourceLoader resolves script locations.
//
// Locations take one of these forms, optionally preceded by "optional:":
//
//	classpath*:pattern   every match in the classpath filesystem
//	classpath:pattern    first match in the classpath filesystem
//	file:pattern         matches on the operating system filesystem
//	pattern              same as classpath:pattern
//
// Patterns may use doublestar globs ("db/**/*.sql").
type ResourceLoader struct {
	// Classpath is the filesystem classpath locations resolve against.
	// A nil Classpath resolves nothing.
	Classpath fs.FS
}

// Resolve resolves each location in order. A location that matches nothing
// is skipped when optional and is an error otherwise.
func (l ResourceLoader) Resolve(locations []string) ([]Resource, error) {
	var out []Resource
	for _, location := range locations {
		found, err := l.resolveOne(location)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}
	return out, nil
}

func (l ResourceLoader) resolveOne(location string) ([]Resource, error) {
	spec, optional := strings.CutPrefix(strings.TrimSpace(location), optionalPrefix)

	var found []Resource
	var err error
	switch {
	case strings.HasPrefix(spec, classpathAllPrefix):
		found, err = l.classpath(location, strings.TrimPrefix(spec, classpathAllPrefix), true)
	case strings.HasPrefix(spec, classpathPrefix):
		found, err = l.classpath(location, strings.TrimPrefix(spec, classpathPrefix), false)
	case strings.HasPrefix(spec, filePrefix):
		found, err = resolveFile(location, strings.TrimPrefix(spec, filePrefix))
	default:
		found, err = l.classpath(location, spec, false)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	if len(found) == 0 && !optional {
		return nil, fmt.Errorf("%s: %w", location, ErrScriptNotFound)
	}
	return found, nil
}

func (l ResourceLoader) classpath(location, pattern string, all bool) ([]Resource, error) {
	if l.Classpath == nil {
		return nil, nil
	}
	pattern = strings.TrimPrefix(path.Clean("/"+pattern), "/")
	matches, err := doublestar.Glob(l.Classpath, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	if !all && len(matches) > 1 {
		matches = matches[:1]
	}
	out := make([]Resource, 0, len(matches))
	for _, m := range matches {
		out = append(out, Resource{Location: location, Name: m, fsys: l.Classpath, fsName: m})
	}
	return out, nil
}

func resolveFile(location, pattern string) ([]Resource, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	out := make([]Resource, 0, len(matches))
	for _, m := range matches {
		abs, err := filepath.Abs(m)
		if err != nil {
			return nil, err
		}
		dir, name := filepath.Split(abs)
		out = append(out, Resource{Location: location, Name: abs, fsys: os.DirFS(dir), fsName: name})
	}
	return out, nil
}
