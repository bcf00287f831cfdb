package search

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	part "github.com/sepamod/gopart"
)

// TreeOptions controls Tree.
type TreeOptions struct {
	Exclude  []string //directory names to skip; nil means the usual clutter
	DirsOnly bool
}

func defaultTreeExclude() []string {
	return []string{".git", "__pycache__"}
}

// Tree renders the directory tree under root, one entry per line, indented
// with the usual branch glyphs. Unreadable directories are shown but not
// descended into.
func Tree(root string, o TreeOptions) (string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return "", Error{message: NotADirectory + ": " + root, deco: []string{"Tree"}}
	}
	if o.Exclude == nil {
		o.Exclude = defaultTreeExclude()
	}
	var b strings.Builder
	tree(&b, root, "", o)
	return b.String(), nil
}

func tree(b *strings.Builder, path, prefix string, o TreeOptions) {
	b.WriteString(prefix + filepath.Base(path) + "\n")
	entries, err := os.ReadDir(path)
	if err != nil {
		return
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, e := range entries {
		if e.IsDir() {
			skip := false
			for _, exc := range o.Exclude {
				if e.Name() == exc {
					skip = true
					break
				}
			}
			if skip {
				continue
			}
			tree(b, filepath.Join(path, e.Name()), prefix+"├── ", o)
		} else if !o.DirsOnly {
			b.WriteString(prefix + "├── " + e.Name() + "\n")
		}
	}
}

//Errors

//errDecorate is a helper function that asserts that the error implements part.Error and
//decorates the error with the caller's name before returning it. If used with a
//non-part.Error error, it will cause a panic.
func errDecorate(err error, caller string) error {
	err2 := err.(part.Error)
	err2.Decorate(caller)
	return err2
}

// Error is the error type for searches. It fulfills part.Error.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string { return "search error: " + err.message }

//Decorate adds new information to the error.
func (err Error) Decorate(deco string) []string {
	//Even though this method does not use a pointer as a receiver, and tries to alter the receiver,
	//it should work, since err.deco is a slice, and hence a pointer itself.
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

const (
	NotADirectory = "Not a directory"
	UnknownWhere  = "Unknown match position"
)
