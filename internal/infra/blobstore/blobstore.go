// Package blobstore keeps transient in-memory documents addressable by URL, the
// webview counterpart of browser blob URLs.
package blobstore

import (
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// PathPrefix is the URL prefix the asset router mounts the store under.
const PathPrefix = "/blob/"

type blob struct {
	content   []byte
	mediaType string
}

type Store struct {
	mu    sync.RWMutex
	blobs map[string]blob
}

func New() *Store {
	return &Store{blobs: make(map[string]blob)}
}

// Create stores content and returns the URL that serves it until revoked.
func (s *Store) Create(content []byte, mediaType string) string {
	handle := uuid.NewString()
	s.mu.Lock()
	s.blobs[handle] = blob{
		content:   append([]byte(nil), content...),
		mediaType: mediaType,
	}
	s.mu.Unlock()
	return PathPrefix + handle
}

// Revoke releases the document behind url. Unknown urls are ignored.
func (s *Store) Revoke(url string) {
	handle, ok := handleFromURL(url)
	if !ok {
		return
	}
	s.mu.Lock()
	delete(s.blobs, handle)
	s.mu.Unlock()
}

// Len reports how many documents are currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

func (s *Store) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handle := mux.Vars(r)["handle"]
	if handle == "" {
		handle, _ = handleFromURL(r.URL.Path)
	}
	s.mu.RLock()
	entry, ok := s.blobs[handle]
	s.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	if entry.mediaType != "" {
		w.Header().Set("Content-Type", entry.mediaType)
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(entry.content)))
	w.Header().Set("Cache-Control", "no-store")
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(entry.content)
}

// Register mounts the store on router.
func (s *Store) Register(router *mux.Router) {
	router.Handle(PathPrefix+"{handle}", s).Methods(http.MethodGet, http.MethodHead)
}

func handleFromURL(url string) (string, bool) {
	idx := strings.Index(url, PathPrefix)
	if idx < 0 {
		return "", false
	}
	handle := strings.TrimSpace(url[idx+len(PathPrefix):])
	return handle, handle != ""
}
