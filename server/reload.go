package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go-vertx/vertx"

	"github.com/fsnotify/fsnotify"
)

// BuildFunc builds a complete, fully linked tree.
type BuildFunc func() (*vertx.Node, error)

// EnableHotReload watches path and swaps in a tree from build each time the
// file is written or replaced. A failed build keeps the current tree.
// The watcher stops when ctx is done.
func (s *Server) EnableHotReload(ctx context.Context, path string, build BuildFunc) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("hot reload: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("hot reload: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("hot reload: %w", err)
	}

	// watch the directory: editors often replace the file instead of writing it
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("hot reload: watch %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				s.reload(abs, build)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("hot reload watcher error", "error", err)
			}
		}
	}()

	s.logger.Info("hot reload enabled", "path", abs)
	return nil
}

func (s *Server) reload(path string, build BuildFunc) {
	root, err := build()
	if err != nil {
		s.logger.Error("hot reload build failed, keeping current tree", "path", path, "error", err)
		return
	}
	if err := s.Swap(root); err != nil {
		s.logger.Error("hot reload swap failed", "path", path, "error", err)
		return
	}
	s.logger.Info("hot reload swapped tree", "path", path, "nodes", countNodes(root))
}
