package api

import (
	"database/sql"
	"net/http"

	"github.com/shareline/shareline/internal/inventory"
	"github.com/shareline/shareline/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, signingKey string) http.Handler {
	mux := http.NewServeMux()

	inv := inventory.NewService(db)
	authHandler := &AuthHandler{DB: db, SigningKey: signingKey}
	usersHandler := &UsersHandler{Inventory: inv}
	itemsHandler := &ItemsHandler{Inventory: inv}
	requestsHandler := &RequestsHandler{Inventory: inv}

	authMW := AuthMiddleware(signingKey, db)
	requireDonor := RequireRole(model.RoleDonor)
	requireAffected := RequireRole(model.RoleAffected)

	// Public: registration and login.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Session.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))

	// Users.
	mux.Handle("GET /api/users", authMW(http.HandlerFunc(usersHandler.List)))
	mux.Handle("GET /api/users/{id}", authMW(http.HandlerFunc(usersHandler.Get)))
	mux.Handle("DELETE /api/users/me", authMW(http.HandlerFunc(usersHandler.DeleteMe)))

	// Items: browsing is open to every session, mutation is donor-only.
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("GET /api/items/mine", authMW(requireDonor(http.HandlerFunc(itemsHandler.Mine))))
	mux.Handle("POST /api/items", authMW(requireDonor(http.HandlerFunc(itemsHandler.Create))))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("DELETE /api/items/{id}", authMW(requireDonor(http.HandlerFunc(itemsHandler.Delete))))
	mux.Handle("PUT /api/items/{id}/image", authMW(requireDonor(http.HandlerFunc(itemsHandler.UploadImage))))
	mux.Handle("GET /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.GetImage)))

	// Requests: filing is affected-only, deciding is donor-only.
	mux.Handle("GET /api/requests", authMW(http.HandlerFunc(requestsHandler.List)))
	mux.Handle("POST /api/requests", authMW(requireAffected(http.HandlerFunc(requestsHandler.Create))))
	mux.Handle("GET /api/requests/{id}", authMW(http.HandlerFunc(requestsHandler.Get)))
	mux.Handle("PATCH /api/requests/{id}", authMW(requireDonor(http.HandlerFunc(requestsHandler.Decide))))
	mux.Handle("DELETE /api/requests/{id}", authMW(http.HandlerFunc(requestsHandler.Delete)))

	return mux
}
