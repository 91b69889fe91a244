package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/alextreichler/storefront/internal/access"
	"github.com/alextreichler/storefront/internal/store"
)

type AuthHandler struct {
	*Base
	// PasswordCost is the bcrypt cost for new accounts; zero means bcrypt.DefaultCost.
	PasswordCost int
}

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.\-]{3,32}$`)

const minPasswordLength = 6

func (h *AuthHandler) LoginGet(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login.html", nil)
}

func (h *AuthHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	user, err := h.Store.GetUserByUsername(r.Context(), username)
	if err != nil {
		slog.Error("Failed to look up user", "error", err)
		h.redirect(w, r, "/login", "error", "Internal Server Error")
		return
	}
	if user == nil {
		h.redirect(w, r, "/login", "error", "Invalid username or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		h.redirect(w, r, "/login", "error", "Invalid username or password")
		return
	}
	role, err := access.ParseRole(user.Role)
	if err != nil || role == access.Guest {
		slog.Error("User has an unusable role", "user", user.Username, "role", user.Role)
		h.redirect(w, r, "/login", "error", "This account cannot log in.")
		return
	}

	if err := h.logIn(w, r, user.Username, role); err != nil {
		slog.Error("Failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	slog.Info("Login successful", "user", user.Username, "role", role.String())
	target := "/"
	if role == access.Admin {
		target = "/admin"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *AuthHandler) logIn(w http.ResponseWriter, r *http.Request, username string, role access.Role) error {
	session := h.session(r)
	session.Values[sessionUsername] = username
	session.Values[sessionRole] = role.String()
	if role != access.Customer {
		delete(session.Values, sessionCart)
	}
	session.AddFlash(FlashMessage{Type: "success", Message: "Welcome, " + username + "!"})
	return session.Save(r, w)
}

// Logout forgets the identity and the cart but keeps the session for the flash.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	delete(session.Values, sessionUsername)
	delete(session.Values, sessionRole)
	delete(session.Values, sessionCart)
	h.redirect(w, r, "/login", "success", "Logged out successfully!")
}

func (h *AuthHandler) RegisterGet(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register.html", nil)
}

// RegisterPost creates a customer account and logs it in.
func (h *AuthHandler) RegisterPost(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	var problems []string
	if !usernameRegex.MatchString(username) {
		problems = append(problems, "Username must be 3-32 letters, digits, dots, dashes or underscores.")
	}
	if len(password) < minPasswordLength {
		problems = append(problems, "Password must be at least 6 characters.")
	}
	if password != r.FormValue("confirm") {
		problems = append(problems, "Passwords do not match.")
	}
	if len(problems) > 0 {
		session := h.session(r)
		for _, msg := range problems {
			session.AddFlash(FlashMessage{Type: "error", Message: msg})
		}
		session.Save(r, w)
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	cost := h.PasswordCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		h.serverError(w, "Failed to hash password", err)
		return
	}

	user, err := h.Store.CreateUser(r.Context(), username, string(hashed), access.Customer.String())
	if errors.Is(err, store.ErrUsernameTaken) {
		h.redirect(w, r, "/register", "error", "That username is already taken.")
		return
	}
	if err != nil {
		h.serverError(w, "Failed to create account", err)
		return
	}

	slog.Info("Registered new customer", "user", user.Username, "user_id", user.ID)
	if err := h.logIn(w, r, user.Username, access.Customer); err != nil {
		h.serverError(w, "Failed to save session", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
