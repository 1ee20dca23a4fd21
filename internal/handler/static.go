package handler

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
)

//go:embed web/views/index.html web/public
var webFS embed.FS

// IndexPage отдаёт встроенную стартовую страницу.
func IndexPage(logger *slog.Logger) http.HandlerFunc {
	page, err := webFS.ReadFile("web/views/index.html")
	if err != nil {
		// файл встроен при сборке, отсутствовать не может
		panic(err)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write(page); err != nil {
			logger.Error("failed to write index page", "error", err)
		}
	}
}

// PublicFiles отдаёт встроенные статические файлы под префиксом /public/.
func PublicFiles() http.Handler {
	public, err := fs.Sub(webFS, "web/public")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/public/", http.FileServer(http.FS(public)))
}
