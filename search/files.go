/*
 * files.go, part of goPart.
 *
 * Copyright 2024 The goPart authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package search finds files and strings by the loose, forgiving rules the
//screening scripts rely on: substring patterns unless the caller clearly
//wrote a glob, case folding by default, and a closest-match fallback for
//hand-typed site names.
package search

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Tri is a three-valued option: unset, yes or no.
type Tri int

const (
	Unset Tri = iota
	Yes
	No
)

// FileOptions controls Files.
type FileOptions struct {
	Pattern string   //name pattern; a glob if it contains * or ?, a substring otherwise
	End     string   //name must end with this
	Exclude []string //names containing any of these are dropped
	Subdir  bool     //recurse into subdirectories
	Files   Tri      //include regular files
	Dirs    Tri      //include directories
}

//The Files/Dirs pair resolves as: both unset means both kinds; setting only
//one of them means only that kind when yes, only the other when no; both
//set to no means nothing at all.
func (o FileOptions) selection() (files, dirs bool) {
	switch {
	case o.Files == Unset && o.Dirs == Unset:
		return true, true
	case o.Files != Unset && o.Dirs != Unset:
		return o.Files == Yes, o.Dirs == Yes
	case o.Files != Unset:
		return o.Files == Yes, o.Files == No
	default:
		return o.Dirs == No, o.Dirs == Yes
	}
}

// Files lists the entries of a directory that pass the options. The returned
// paths include the root.
func Files(root string, o FileOptions) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, Error{message: NotADirectory + ": " + root, deco: []string{"Files"}}
	}
	wantFiles, wantDirs := o.selection()
	if !wantFiles && !wantDirs {
		return []string{}, nil
	}
	var items []string
	add := func(path string, isDir bool) {
		if isDir && !wantDirs || !isDir && !wantFiles {
			return
		}
		name := filepath.Base(path)
		if !matchName(name, o.Pattern) {
			return
		}
		if o.End != "" && !strings.HasSuffix(name, o.End) {
			return
		}
		for _, exc := range o.Exclude {
			if strings.Contains(name, exc) {
				return
			}
		}
		items = append(items, path)
	}
	if o.Subdir {
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != root {
				add(path, d.IsDir())
			}
			return nil
		})
		if err != nil {
			return nil, Error{message: err.Error(), deco: []string{"Files"}}
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, Error{message: err.Error(), deco: []string{"Files"}}
		}
		for _, e := range entries {
			add(filepath.Join(root, e.Name()), e.IsDir())
		}
	}
	return items, nil
}

//A pattern with no glob metacharacters means "anywhere in the name".
func matchName(name, pattern string) bool {
	if pattern == "" {
		return true
	}
	if !strings.ContainsAny(pattern, "*?") {
		pattern = "*" + pattern + "*"
	}
	ok, err := filepath.Match(pattern, name)
	return err == nil && ok
}
