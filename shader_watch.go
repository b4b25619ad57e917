package render

import (
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// ProgramWatcher watches shader files and rebuilds a program when they
// change. File events arrive on a background goroutine, which only marks
// the watcher dirty; the rebuild itself happens in Reload, on the thread
// that owns the graphics context.
type ProgramWatcher struct {
	files   []ShaderFile
	paths   map[string]bool
	watcher *fsnotify.Watcher
	dirty   atomic.Bool
	done    chan struct{}
}

// WatchProgram starts watching the given shader files.
// Directories are watched rather than files so that editors which save by
// renaming a temporary file are picked up.
func WatchProgram(files ...ShaderFile) (*ProgramWatcher, error) {
	if len(files) == 0 {
		return nil, ErrNoStages
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch shaders: %w", err)
	}

	pw := &ProgramWatcher{
		files:   files,
		paths:   make(map[string]bool),
		watcher: w,
		done:    make(chan struct{}),
	}
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f.Path)
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s shader %q: %w", f.Stage, f.Path, err)
		}
		pw.paths[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %q: %w", dir, err)
		}
	}

	go pw.loop()
	return pw, nil
}

func (pw *ProgramWatcher) loop() {
	defer close(pw.done)
	for {
		select {
		case ev, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !pw.paths[abs] {
				continue
			}
			Logger().Debug("shader changed", "path", ev.Name, "op", ev.Op.String())
			pw.dirty.Store(true)
		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			Logger().Warn("shader watcher error", "err", err)
		}
	}
}

// Dirty reports whether a watched file changed since the last Reload.
func (pw *ProgramWatcher) Dirty() bool { return pw.dirty.Load() }

// Reload rebuilds p from the watched files if any of them changed.
// It reports whether p was replaced. A read, compile or link failure is
// returned and p keeps its previous program.
func (pw *ProgramWatcher) Reload(d Driver, p *Program) (bool, error) {
	if !pw.dirty.Swap(false) {
		return false, nil
	}
	sources, err := ReadShaderFiles(pw.files...)
	if err != nil {
		return false, err
	}
	if err := p.Rebuild(d, sources...); err != nil {
		return false, err
	}
	Logger().Info("shader program reloaded", "program", p.ID())
	return true, nil
}

// Close stops watching.
func (pw *ProgramWatcher) Close() error {
	err := pw.watcher.Close()
	<-pw.done
	return err
}
