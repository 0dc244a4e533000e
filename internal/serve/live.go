package serve

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 200 * time.Millisecond

// startWatch watches the content directory and the theme directory. A
// burst of changes invalidates the store cache once and tells every open
// page to reload.
func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		if e := w.Add(s.cfg.Content.Dir); e != nil {
			_ = w.Close()
			err = fmt.Errorf("watch %s: %w", s.cfg.Content.Dir, e)
			return
		}
		if dir := s.cfg.Build.ThemeDir; dir != "" {
			if e := w.Add(dir); e != nil {
				s.log.WithError(e).WithField("dir", dir).Warn("theme directory not watched")
			}
		}
		s.watcher = w
		go s.watchLoop(ctx, w)
	})
	return err
}

func (s *Server) watchLoop(ctx context.Context, w *fsnotify.Watcher) {
	s.log.WithField("dir", s.cfg.Content.Dir).Info("watching for file changes")
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			debounce.Stop()
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				debounce.Reset(reloadDebounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.log.WithError(err).Warn("watcher error")
		case <-debounce.C:
			s.store.Invalidate()
			s.log.Debug("content changed, reloading")
			s.broadcastSSE("reload")
		}
	}
}

// subscribe registers an event channel; the returned func removes it.
func (s *Server) subscribe() (chan string, func()) {
	ch := make(chan string, 8)
	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()
	return ch, func() {
		s.sseMu.Lock()
		delete(s.sseConns, ch)
		close(ch)
		s.sseMu.Unlock()
	}
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, unsubscribe := s.subscribe()
	defer unsubscribe()

	fmt.Fprintf(w, "data: %s\n\n", "hello")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// broadcastSSE drops the message for subscribers whose buffer is full.
func (s *Server) broadcastSSE(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	for ch := range s.sseConns {
		select {
		case ch <- msg:
		default:
		}
	}
}
