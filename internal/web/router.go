package web

import (
	"database/sql"
	"net/http"

	"github.com/shareline/shareline/internal/inventory"
	"github.com/shareline/shareline/internal/model"
	webembed "github.com/shareline/shareline/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(db *sql.DB, signingKey string) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		DB:         db,
		Inventory:  inventory.NewService(db),
		Templates:  templates,
		SigningKey: signingKey,
	}

	mux := http.NewServeMux()
	cookieAuth := CookieAuthMiddleware(signingKey, db)
	donorOnly := RequireWebRole(model.RoleDonor)
	affectedOnly := RequireWebRole(model.RoleAffected)

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public routes.
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("GET /register", s.RegisterPage)
	mux.HandleFunc("POST /register", s.RegisterSubmit)
	mux.HandleFunc("POST /logout", s.Logout)

	// Authenticated routes.
	mux.Handle("GET /{$}", cookieAuth(http.HandlerFunc(s.Dashboard)))

	mux.Handle("GET /items", cookieAuth(http.HandlerFunc(s.ItemsPage)))
	mux.Handle("POST /items", cookieAuth(donorOnly(http.HandlerFunc(s.ItemCreateSubmit))))
	mux.Handle("GET /items/{id}", cookieAuth(http.HandlerFunc(s.ItemDetailPage)))
	mux.Handle("POST /items/{id}/delete", cookieAuth(donorOnly(http.HandlerFunc(s.ItemDeleteSubmit))))
	mux.Handle("POST /items/{id}/image", cookieAuth(donorOnly(http.HandlerFunc(s.ItemImageSubmit))))
	mux.Handle("GET /items/{id}/image", cookieAuth(http.HandlerFunc(s.ItemImageGet)))

	mux.Handle("POST /requests", cookieAuth(affectedOnly(http.HandlerFunc(s.RequestCreateSubmit))))
	mux.Handle("POST /requests/{id}/decide", cookieAuth(donorOnly(http.HandlerFunc(s.RequestDecideSubmit))))
	mux.Handle("POST /requests/{id}/delete", cookieAuth(http.HandlerFunc(s.RequestDeleteSubmit)))

	return mux, nil
}
