package handlers

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/alextreichler/storefront/internal/access"
	"github.com/alextreichler/storefront/internal/events"
	"github.com/alextreichler/storefront/internal/models"
	"github.com/alextreichler/storefront/internal/store"
)

const (
	sessionName = "storefront-session"

	sessionUsername = "username"
	sessionRole     = "role"
	sessionCart     = "cart"
)

// CatalogSource supplies the current product catalog.
type CatalogSource interface {
	Load() (*models.Catalog, error)
}

// Base carries the dependencies shared by every handler.
type Base struct {
	Store        *store.Store
	Catalog      CatalogSource
	SessionStore sessions.Store
	Templates    *TemplateCache
	Events       events.Publisher
}

func (b *Base) session(r *http.Request) *sessions.Session {
	session, err := b.SessionStore.Get(r, sessionName)
	if err != nil {
		// A cookie signed with an old key decodes to a fresh session.
		slog.Debug("Discarding unreadable session", "error", err)
	}
	return session
}

func (b *Base) flash(w http.ResponseWriter, r *http.Request, kind, message string) {
	session := b.session(r)
	session.AddFlash(FlashMessage{Type: kind, Message: message})
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
	}
}

// redirect stores a flash message and answers 303 See Other.
func (b *Base) redirect(w http.ResponseWriter, r *http.Request, target, kind, message string) {
	if message != "" {
		b.flash(w, r, kind, message)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// identityFromSession reads the logged-in user; anything malformed is anonymous.
func (b *Base) identityFromSession(r *http.Request) access.Identity {
	session := b.session(r)
	username, _ := session.Values[sessionUsername].(string)
	roleName, _ := session.Values[sessionRole].(string)
	if username == "" {
		return access.Anonymous
	}
	role, err := access.ParseRole(roleName)
	if err != nil {
		slog.Warn("Ignoring session with unknown role", "username", username, "role", roleName)
		return access.Anonymous
	}
	return access.Identity{Username: username, Role: role}
}

// IdentityMiddleware puts the session identity into the request context.
func (b *Base) IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := b.identityFromSession(r)
		next.ServeHTTP(w, r.WithContext(access.WithIdentity(r.Context(), id)))
	})
}

// Require lets the request through only when the identity holds the capability.
// Anonymous callers are sent to the login page, wrong roles get 403.
func (b *Base) Require(c access.Capability, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := access.FromContext(r.Context())
		err := access.Check(id, c)
		switch {
		case err == nil:
			next(w, r)
		case errors.Is(err, access.ErrUnauthenticated):
			slog.Info("Access gate: login required", "path", r.URL.Path, "capability", c.String())
			b.redirect(w, r, "/login", "error", "Please log in to continue.")
		default:
			slog.Warn("Access gate: forbidden", "path", r.URL.Path, "user", id.Username, "role", id.Role.String(), "capability", c.String())
			http.Error(w, "Forbidden", http.StatusForbidden)
		}
	}
}

func (b *Base) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	b.renderStatus(w, r, http.StatusOK, name, data)
}

// renderStatus executes a page template with the common fields every page
// expects. Admin pages always get freshly computed counters.
func (b *Base) renderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	tmpl := b.Templates.Get(name)
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = make(map[string]any)
	}

	id := access.FromContext(r.Context())
	data["Identity"] = id
	data["CsrfField"] = csrf.TemplateField(r)
	if id.Can(access.ViewCounters) {
		counters, err := b.Store.Counters(r.Context())
		if err != nil {
			slog.Error("Failed to compute admin counters", "error", err)
		} else {
			publishCounters(counters)
			data["Counters"] = counters
		}
	}
	if id.Can(access.ManageCart) {
		data["CartCount"] = b.cart(r).Len()
	}

	session := b.session(r)
	data["Flashes"] = GetFlash(session)
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		slog.Error("Failed to render template", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// NotFound renders the 404 page.
func (b *Base) NotFound(w http.ResponseWriter, r *http.Request) {
	b.renderStatus(w, r, http.StatusNotFound, "404.html", nil)
}

func (b *Base) serverError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	http.Error(w, msg, http.StatusInternalServerError)
}

// pathID parses the {id} path segment. ok is false after a 400 has been written.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (b *Base) publish(r *http.Request, ev events.Event) {
	if b.Events == nil {
		return
	}
	if err := b.Events.Publish(r.Context(), ev); err != nil {
		slog.Error("Failed to publish event", "type", ev.Type, "error", err)
	}
}
