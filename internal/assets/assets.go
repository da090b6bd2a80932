// Package assets serves the browser front-end for the engagement checker.
//
// The page is embedded in the binary. A directory on disk can replace it, in
// which case any path that does not name a file falls back to index.html so
// client-side routes keep working.
package assets

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
)

//go:embed web
var embedded embed.FS

const indexFile = "index.html"

// ConfigPath is where the front-end loads its runtime settings from
const ConfigPath = "/config.js"

// FS returns the embedded front-end rooted at its index.html
func FS() fs.FS {
	sub, err := fs.Sub(embedded, "web")
	if err != nil {
		panic(err)
	}
	return sub
}

// Handler returns an http.Handler serving the front-end. When dir is empty the
// embedded page is used. apiURL is exposed to the page through ConfigPath.
func Handler(dir, apiURL string) (http.Handler, error) {
	fsys := FS()
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("web dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("web dir %s is not a directory", dir)
		}
		fsys = os.DirFS(dir)
		if _, err := fs.Stat(fsys, indexFile); err != nil {
			return nil, fmt.Errorf("web dir %s has no %s: %w", dir, indexFile, err)
		}
	}

	r := chi.NewRouter()
	r.Get(ConfigPath, configScript(apiURL))
	r.Handle("/*", spa(fsys))
	return r, nil
}

// configScript publishes the API base URL as a global for app.js
func configScript(apiURL string) http.HandlerFunc {
	encoded, _ := json.Marshal(strings.TrimRight(apiURL, "/"))
	body := []byte("window.IGENGAGE_API_URL = " + string(encoded) + ";\n")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(body)
	}
}

func spa(fsys fs.FS) http.Handler {
	files := http.FileServer(http.FS(fsys))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if name == "" {
			serveIndex(w, r, fsys)
			return
		}
		info, err := fs.Stat(fsys, name)
		if err != nil || info.IsDir() {
			serveIndex(w, r, fsys)
			return
		}
		files.ServeHTTP(w, r)
	})
}

func serveIndex(w http.ResponseWriter, r *http.Request, fsys fs.FS) {
	w.Header().Set("Cache-Control", "no-cache")
	data, err := fs.ReadFile(fsys, indexFile)
	if err != nil {
		http.Error(w, "front-end not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}
