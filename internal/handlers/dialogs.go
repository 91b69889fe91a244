package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alextreichler/storefront/internal/access"
	"github.com/alextreichler/storefront/internal/events"
	"github.com/alextreichler/storefront/internal/models"
	"github.com/alextreichler/storefront/internal/store"
)

type DialogHandler struct {
	*Base
}

func (h *DialogHandler) Contacts(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "contacts.html", nil)
}

// ContactSend stores a contact-form message. Anyone may write; a logged-in
// customer gets the dialog in their own inbox.
func (h *DialogHandler) ContactSend(w http.ResponseWriter, r *http.Request) {
	id := access.FromContext(r.Context())
	username := ""
	if id.Role == access.Customer {
		username = id.Username
	}

	dialog, err := h.Store.CreateGuestDialog(r.Context(), username, r.FormValue("name"), r.FormValue("email"), r.FormValue("message"))
	recordDialogOperation("create", err, false)
	if errors.Is(err, store.ErrEmptyMessage) {
		h.redirect(w, r, "/contacts", "error", "Please write a message.")
		return
	}
	if err != nil {
		h.serverError(w, "Failed to send message", err)
		return
	}

	h.dialogCreated(r, dialog)
	h.redirect(w, r, "/contacts", "success", "Thanks! We will get back to you soon.")
}

// List shows the caller's dialogs.
func (h *DialogHandler) List(w http.ResponseWriter, r *http.Request) {
	id := access.FromContext(r.Context())
	dialogs, err := h.Store.DialogsForUser(r.Context(), id.Username)
	if err != nil {
		h.serverError(w, "Error fetching dialogs", err)
		return
	}
	h.render(w, r, "dialogs.html", map[string]any{"Dialogs": dialogs})
}

func (h *DialogHandler) Create(w http.ResponseWriter, r *http.Request) {
	id := access.FromContext(r.Context())
	dialog, err := h.Store.CreateCustomerDialog(r.Context(), id.Username, r.FormValue("topic"), r.FormValue("message"))
	recordDialogOperation("create", err, false)
	if errors.Is(err, store.ErrEmptyMessage) {
		h.redirect(w, r, "/dialogs", "error", "Please write a message.")
		return
	}
	if err != nil {
		h.serverError(w, "Failed to start dialog", err)
		return
	}

	h.dialogCreated(r, dialog)
	h.redirect(w, r, "/dialogs", "success", "Your question has been sent.")
}

// View shows one of the caller's dialogs; anything else is a 404.
func (h *DialogHandler) View(w http.ResponseWriter, r *http.Request) {
	dialogID, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := h.Store.GetDialog(r.Context(), dialogID)
	if err != nil {
		h.serverError(w, "Error fetching dialog", err)
		return
	}
	dialog, err := res.Require()
	if err != nil || dialog.Originator.Username != access.FromContext(r.Context()).Username {
		h.NotFound(w, r)
		return
	}
	h.render(w, r, "dialog.html", map[string]any{"Dialog": dialog})
}

// Append adds the caller's message. Closed, foreign and unknown dialogs are ignored.
func (h *DialogHandler) Append(w http.ResponseWriter, r *http.Request) {
	dialogID, ok := pathID(w, r)
	if !ok {
		return
	}
	id := access.FromContext(r.Context())
	res, err := h.Store.AppendCustomerMessage(r.Context(), dialogID, id.Username, r.FormValue("message"))
	recordDialogOperation("append", err, !res.Found)
	if err != nil {
		h.serverError(w, "Failed to send message", err)
		return
	}
	if !res.Found {
		slog.Info("Customer message ignored", "dialog_id", dialogID, "user", id.Username)
		h.redirect(w, r, "/dialogs", "", "")
		return
	}

	h.messageAppended(r, res.Value)
	h.redirect(w, r, "/dialogs", "success", "Message sent.")
}

func (b *Base) dialogCreated(r *http.Request, d models.Dialog) {
	slog.Info("Dialog opened", "dialog_id", d.ID, "topic", d.Topic, "role", d.Originator.Role)
	ev := events.New(events.DialogCreated)
	ev.DialogID = d.ID
	ev.Username = d.Originator.Username
	ev.Status = d.Status
	b.publish(r, ev)
}

func (b *Base) messageAppended(r *http.Request, d models.Dialog) {
	ev := events.New(events.DialogMessage)
	ev.DialogID = d.ID
	ev.Username = d.LastAuthor()
	ev.Status = d.Status
	b.publish(r, ev)
}
