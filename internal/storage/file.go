package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"

	"github.com/fsnotify/fsnotify"
	"github.com/m-mizutani/goerr/v2"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// FileStore keeps each key in <dir>/<key>.json
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create storage dir", goerr.V("dir", dir))
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", goerr.New("invalid storage key", goerr.V("key", key))
	}
	return filepath.Join(f.dir, key+".json"), nil
}

func (f *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := f.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, goerr.Wrap(ErrNotFound, "file get", goerr.V("key", key))
		}
		return nil, goerr.Wrap(err, "failed to read key", goerr.V("path", path))
	}
	return data, nil
}

// Set writes through a temp file and rename so readers never see a partial value
func (f *FileStore) Set(ctx context.Context, key string, value []byte) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, "."+key+"-*.tmp")
	if err != nil {
		return goerr.Wrap(err, "failed to create temp file", goerr.V("dir", f.dir))
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return goerr.Wrap(err, "failed to write temp file", goerr.V("path", tmp.Name()))
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to close temp file", goerr.V("path", tmp.Name()))
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return goerr.Wrap(err, "failed to chmod temp file", goerr.V("path", tmp.Name()))
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return goerr.Wrap(err, "failed to replace key file", goerr.V("path", path))
	}
	return nil
}

func (f *FileStore) Remove(ctx context.Context, key string) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return goerr.Wrap(err, "failed to remove key file", goerr.V("path", path))
	}
	return nil
}

func (f *FileStore) Close() error {
	return nil
}

// Watch watches the storage directory, since Set replaces the key file by rename
func (f *FileStore) Watch(ctx context.Context, key string) (<-chan struct{}, error) {
	path, err := f.path(key)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create watcher")
	}
	if err := watcher.Add(f.dir); err != nil {
		watcher.Close()
		return nil, goerr.Wrap(err, "failed to watch storage dir", goerr.V("dir", f.dir))
	}

	changes := make(chan struct{}, 1)

	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != path {
					continue
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				// coalesce bursts; one pending signal is enough
				select {
				case changes <- struct{}{}:
				default:
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return changes, nil
}
