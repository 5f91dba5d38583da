package wire

import (
	"net/http"

	"ride-hailing/pkg/middleware"
	"ride-hailing/pkg/storage"

	"github.com/go-chi/chi/v5"
)

func wireUploads(
	r chi.Router,
	rootDir string,
	auth func(http.Handler) http.Handler,
) {
	files := http.StripPrefix("/uploads/", http.FileServer(storage.FilesOnly{FS: http.Dir(rootDir)}))

	// ==================== PUBLIC ====================
	r.Handle("/uploads/"+storage.FolderAvatars+"/*", files)

	// ==================== IDENTITY DOCUMENTS (admin only) ====================
	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.RequireRoles(roleAdmin))

		r.Handle("/uploads/"+storage.FolderLicenses+"/*", files)
		r.Handle("/uploads/"+storage.FolderAadhars+"/*", files)
	})
}
