package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/lumapress/luma/pkg/config"
	"github.com/lumapress/luma/pkg/server"
)

// watchDebounce coalesces editor write bursts into one invalidation.
const watchDebounce = 500 * time.Millisecond

// NewServeCmd returns the `luma serve` command: the HTTP server plus an
// optional filesystem watcher that invalidates the index on content
// changes.
func NewServeCmd(deps *Deps) *cobra.Command {
	var port int
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the content API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := deps.Config()
			if err != nil {
				return err
			}
			logger := deps.ResolveLogger()

			engine, err := deps.Engine(ctx)
			if err != nil {
				return err
			}

			// Warm the index up front so the first request is fast and
			// configuration problems surface before listening.
			if ix, err := engine.GetIndex(ctx); err != nil {
				logger.Warn("initial index build failed", "error", err)
			} else {
				logger.Info("index ready",
					"version", ix.Version,
					"galleries", ix.Stats.Galleries,
					"posts", ix.Stats.Posts,
					"pages", ix.Stats.Pages)
			}

			if watch {
				if cfg.Storage.ResolveBackend() != config.BackendFs {
					logger.Warn("--watch only applies to the fs backend; ignoring")
				} else {
					stopWatch, err := watchContent(ctx, cfg.Storage.Root, engine.Invalidate, logger)
					if err != nil {
						return fmt.Errorf("start watcher: %w", err)
					}
					defer stopWatch()
				}
			}

			if port == 0 {
				port = cfg.Server.Port
			}
			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", port),
				Handler:           server.New(engine, logger, cfg.Auth.JWTSecret).Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", srv.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return err
				}
				return ctx.Err()
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (default from config)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false,
		"watch the content root and invalidate the index on changes (fs backend only)")

	return cmd
}

// hasDotElement reports whether any path element below root starts with
// a dot. Dot-paths hold the index cache itself, so watching them would
// turn every invalidation into another change event.
func hasDotElement(root, name string) bool {
	rel, err := filepath.Rel(root, name)
	if err != nil || rel == "." {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// watchContent invalidates through invalidate whenever files under root
// change, debounced. New subdirectories are added to the watch as they
// appear; dotfiles and dot-directories are ignored. The returned func
// stops the watcher.
func watchContent(ctx context.Context, root string, invalidate func(context.Context) error, logger *slog.Logger) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	addTree := func(dir string) {
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() {
				return nil
			}
			if hasDotElement(root, path) {
				return fs.SkipDir
			}
			if err := watcher.Add(path); err != nil {
				logger.Warn("cannot watch directory", "path", path, "error", err)
			}
			return nil
		})
	}
	addTree(root)

	go func() {
		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				if hasDotElement(root, event.Name) {
					continue
				}
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						addTree(event.Name)
					}
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(watchDebounce, func() {
					if err := invalidate(ctx); err != nil {
						logger.Warn("invalidate after change failed", "error", err)
						return
					}
					logger.Info("index invalidated after content change")
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watcher error", "error", err)
			}
		}
	}()

	return func() { _ = watcher.Close() }, nil
}
