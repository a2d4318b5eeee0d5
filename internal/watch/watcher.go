package watch

import (
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay gives editors and config management tools time to finish
// writing before a pass starts. Every further change within the window
// restarts it.
const settleDelay = 10 * time.Second

func NewConfigWatcher(path string, onChange func()) *ConfigWatcher {
	return &ConfigWatcher{
		path:     path,
		onChange: onChange,
		done:     make(chan struct{}),
	}
}

// ConfigWatcher triggers a reconciliation pass when the desired-state
// document changes on disk. The parent directory is watched rather than
// the file itself so atomic replace-by-rename is picked up too.
type ConfigWatcher struct {
	path     string
	onChange func()
	done     chan struct{}
}

func (w *ConfigWatcher) Run() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	var settle *time.Timer
	var fired <-chan time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.Printf("[*] desired state document changed, pass in %s", settleDelay)
			if settle == nil {
				settle = time.NewTimer(settleDelay)
				fired = settle.C
			} else {
				if !settle.Stop() {
					select {
					case <-settle.C:
					default:
					}
				}
				settle.Reset(settleDelay)
			}
		case <-fired:
			settle = nil
			fired = nil
			w.onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[!] config watcher: %v", err)
		case <-w.done:
			return nil
		}
	}
}

func (w *ConfigWatcher) Close() {
	close(w.done)
}
