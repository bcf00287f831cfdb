package xmlpt

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

//Watch mode: the model takes hours per scenario and writes the XML as it
//goes, so conversion can start as soon as each file stops growing instead of
//waiting for the whole batch.

// Watch converts particle XML files as they appear under dir, until done is
// closed. Newly created subdirectories are watched too. Conversion failures
// are logged, not fatal: a half-written file will be picked up again on the
// next write event.
func Watch(dir string, o Options, done <-chan struct{}) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return Error{err.Error(), dir, []string{"Watch"}, true}
	}
	defer w.Close()
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
	if err != nil {
		return Error{err.Error(), dir, []string{"Watch"}, true}
	}
	for {
		select {
		case <-done:
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("xmlpt: watch error: %v", err)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					w.Add(ev.Name)
					continue
				}
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.EqualFold(filepath.Ext(ev.Name), ".xml") {
				continue
			}
			if _, err := os.Stat(OutputName(ev.Name)); err == nil {
				continue //already converted
			}
			if !waitStable(ev.Name, done) {
				continue
			}
			if out, err := Convert(ev.Name, o); err != nil {
				log.Printf("xmlpt: %s not converted: %v", ev.Name, err)
			} else {
				log.Printf("xmlpt: wrote %s", out)
			}
		}
	}
}

//waitStable waits until the file size stops changing. Returns false if the
//file vanishes or done closes first.
func waitStable(name string, done <-chan struct{}) bool {
	var last int64 = -1
	for {
		info, err := os.Stat(name)
		if err != nil {
			return false
		}
		if info.Size() == last {
			return true
		}
		last = info.Size()
		select {
		case <-done:
			return false
		case <-time.After(500 * time.Millisecond):
		}
	}
}
