package assets

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"orrery/kernel"
)

// Watcher reports texture files under a root directory that were written or
// recreated, as asset names ("/earth/map.webp").
type Watcher struct {
	root string
	w    *fsnotify.Watcher
	evC  chan string
	erC  chan error
}

// NewWatcher watches root and every directory below it.
func NewWatcher(root string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
	if err != nil {
		w.Close()
		return nil, err
	}
	aw := &Watcher{root: root, w: w, evC: make(chan string, 128), erC: make(chan error, 1)}
	go aw.loop()
	return aw, nil
}

func (aw *Watcher) loop() {
	defer close(aw.erC)
	defer close(aw.evC)
	for {
		select {
		case ev, ok := <-aw.w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			name, ok := aw.assetName(ev.Name)
			if !ok {
				continue
			}
			select {
			case aw.evC <- name:
			default:
			}
		case err, ok := <-aw.w.Errors:
			if !ok {
				return
			}
			select {
			case aw.erC <- err:
			default:
			}
		}
	}
}

func (aw *Watcher) assetName(p string) (string, bool) {
	rel, err := filepath.Rel(aw.root, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	switch strings.ToLower(filepath.Ext(rel)) {
	case ".png", ".jpg", ".jpeg", ".webp":
		return "/" + filepath.ToSlash(rel), true
	}
	return "", false
}

// Events yields changed asset names. It is closed after Close.
func (aw *Watcher) Events() <-chan string { return aw.evC }

// Errors yields watcher errors. It is closed after Close.
func (aw *Watcher) Errors() <-chan error { return aw.erC }

func (aw *Watcher) Close() error          { return aw.w.Close() }

// Reload feeds change events into l until ctx is done: every changed file in
// names is reloaded and posted to inbox.
func (aw *Watcher) Reload(ctx context.Context, l *Loader, inbox *kernel.Inbox[Result], names map[string]bool) {
	for {
		select {
		case <-ctx.Done():
			return
		case name, ok := <-aw.Events():
			if !ok {
				return
			}
			if names != nil && !names[name] {
				continue
			}
			if inbox.Send(ctx, l.load(ctx, Request{Kind: KindTexture, Name: name})) != nil {
				return
			}
		}
	}
}
