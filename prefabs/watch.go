package prefabs

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind says what a changed file feeds into.
type ChangeKind int

const (
	ChangeLevel ChangeKind = iota
	ChangePrefab
	ChangeImages
	ChangeScript
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeLevel:
		return "level"
	case ChangePrefab:
		return "prefab"
	case ChangeImages:
		return "images"
	case ChangeScript:
		return "script"
	default:
		return "unknown"
	}
}

// Change is one file the game has to reload.
type Change struct {
	Path string
	Kind ChangeKind
}

// WatchDirs names the directories hot reload watches. Empty entries are
// skipped.
type WatchDirs struct {
	Levels  string
	Prefabs string
	Scripts string
}

// DefaultWatchDirs are the on-disk locations Load and LoadScript prefer over
// the embedded copies.
var DefaultWatchDirs = WatchDirs{Levels: "levels", Prefabs: "prefabs", Scripts: "prefabs/scripts"}

const defaultQuiet = 150 * time.Millisecond

// Watcher collects changed level, prefab and script files and sends them as
// one batch once the directories have been quiet for a moment, so an editor
// saving several files triggers a single reload.
type Watcher struct {
	watcher *fsnotify.Watcher
	dirs    WatchDirs
	quiet   time.Duration
	Events  chan []Change
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewWatcher(dirs WatchDirs) (*Watcher, error) {
	return newWatcher(dirs, defaultQuiet)
}

func newWatcher(dirs WatchDirs, quiet time.Duration) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range []string{dirs.Levels, dirs.Prefabs, dirs.Scripts} {
		if dir == "" {
			continue
		}
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		dirs:    dirs,
		quiet:   quiet,
		Events:  make(chan []Change, 4),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)

	pending := make(map[string]ChangeKind)
	timer := time.NewTimer(w.quiet)
	timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			kind, ok := w.dirs.classify(event.Name)
			if !ok {
				continue
			}
			pending[event.Name] = kind
			timer.Reset(w.quiet)
		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]Change, 0, len(pending))
			for path, kind := range pending {
				batch = append(batch, Change{Path: path, Kind: kind})
			}
			slices.SortFunc(batch, func(a, b Change) int { return strings.Compare(a.Path, b.Path) })
			clear(pending)
			select {
			case w.Events <- batch:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			timer.Stop()
			return
		}
	}
}

// classify maps a path inside the watched directories to the data it
// feeds. Editor backups, hidden files and unrelated extensions are ignored.
func (d WatchDirs) classify(path string) (ChangeKind, bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return 0, false
	}
	dir := filepath.Clean(filepath.Dir(path))
	in := func(want string) bool {
		return want != "" && dir == filepath.Clean(want)
	}

	switch {
	case isScriptFile(base):
		if in(d.Scripts) {
			return ChangeScript, true
		}
	case isSpecFile(base):
		switch {
		case in(d.Levels):
			return ChangeLevel, true
		case in(d.Prefabs) && base == "images.yaml":
			return ChangeImages, true
		case in(d.Prefabs):
			return ChangePrefab, true
		}
	}
	return 0, false
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}
