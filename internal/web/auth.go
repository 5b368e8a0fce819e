package web

import (
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/shareline/shareline/internal/auth"
	"github.com/shareline/shareline/internal/model"
	"github.com/shareline/shareline/internal/store"
)

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &PageData{Title: "Prijava"})
}

// LoginSubmit handles POST /login. The form picks the role to act in; it must
// match one of the account's capability flags.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	role, err := model.ParseRole(r.FormValue("role"))
	if err != nil {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Prijava",
			Error: "Izberite vlogo.",
		})
		return
	}

	if email == "" || password == "" {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Prijava",
			Error: "Vnesite e-poštni naslov in geslo.",
		})
		return
	}

	user, err := store.GetUserByEmail(r.Context(), s.DB, email)
	if err != nil || user == nil {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Prijava",
			Error: "Napačen e-poštni naslov ali geslo.",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login failed", "email", email, "remote", r.RemoteAddr)
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Prijava",
			Error: "Napačen e-poštni naslov ali geslo.",
		})
		return
	}

	if !user.HasRole(role) {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Prijava",
			Error: "Račun ni registriran za izbrano vlogo.",
		})
		return
	}

	token, err := auth.GenerateToken(s.SigningKey, user, role)
	if err != nil {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Prijava",
			Error: "Napaka pri prijavi.",
		})
		return
	}

	setAuthCookie(w, token)
	slog.Info("user logged in", "user", user.Email, "role", role)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RegisterPage handles GET /register.
func (s *Server) RegisterPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "register.html", &PageData{Title: "Registracija"})
}

// RegisterSubmit handles POST /register.
func (s *Server) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	name := r.FormValue("name")
	password := r.FormValue("password")
	isDonor := r.FormValue("is_donor") == "on"
	isAffected := r.FormValue("is_affected") == "on"

	renderError := func(msg string) {
		s.Templates.Render(w, "register.html", &PageData{Title: "Registracija", Error: msg})
	}

	if err := model.ValidateEmail(email); err != nil {
		renderError("Vnesite veljaven e-poštni naslov.")
		return
	}
	if name == "" {
		renderError("Vnesite ime.")
		return
	}
	if err := model.ValidatePassword(password); err != nil {
		renderError("Geslo mora imeti vsaj 8 znakov.")
		return
	}
	if !isDonor && !isAffected {
		renderError("Izberite vsaj eno vlogo.")
		return
	}

	existing, err := store.GetUserByEmail(r.Context(), s.DB, email)
	if err != nil {
		renderError("Napaka pri registraciji.")
		return
	}
	if existing != nil {
		renderError("E-poštni naslov je že registriran.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		renderError("Napaka pri registraciji.")
		return
	}

	user, err := store.CreateUser(r.Context(), s.DB, email, name, string(hash), isDonor, isAffected)
	if err != nil {
		slog.Error("failed to create user", "error", err)
		renderError("Napaka pri registraciji.")
		return
	}

	role := model.RoleAffected
	if user.IsDonor {
		role = model.RoleDonor
	}
	token, err := auth.GenerateToken(s.SigningKey, user, role)
	if err != nil {
		renderError("Napaka pri registraciji.")
		return
	}

	setAuthCookie(w, token)
	slog.Info("user registered", "user", user.Email, "donor", user.IsDonor, "affected", user.IsAffected)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout. The session token's JTI is revoked so the
// cookie cannot be replayed.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("token"); err == nil && cookie.Value != "" {
		if claims, err := auth.ValidateToken(s.SigningKey, cookie.Value); err == nil {
			if claims.ID != "" && claims.ExpiresAt != nil {
				if err := store.RevokeToken(r.Context(), s.DB, claims.ID, claims.ExpiresAt.Time); err != nil {
					slog.Error("failed to revoke token", "error", err)
				}
			}
		}
	}

	clearAuthCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(auth.TokenExpiry.Seconds()),
	})
}
