package handlers

import (
	"net/http"
	"strconv"

	"github.com/alextreichler/storefront/internal/events"
)

// ListDialogs shows every dialog, newest first, with unanswered ones marked.
func (h *AdminHandler) ListDialogs(w http.ResponseWriter, r *http.Request) {
	page, limit := paging(r)

	dialogs, err := h.Store.ListDialogs(r.Context())
	if err != nil {
		h.serverError(w, "Error fetching dialogs", err)
		return
	}

	newest, totalPages := newestPage(dialogs, page, limit)

	h.render(w, r, "admin_dialogs.html", map[string]any{
		"Dialogs":     newest,
		"CurrentPage": page,
		"TotalPages":  totalPages,
		"Limit":       limit,
	})
}

func (h *AdminHandler) ViewDialog(w http.ResponseWriter, r *http.Request) {
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
	if err != nil {
		h.NotFound(w, r)
		return
	}
	h.render(w, r, "admin_dialog.html", map[string]any{"Dialog": dialog})
}

// Reply appends a staff message. Closed and unknown dialogs are ignored.
func (h *AdminHandler) Reply(w http.ResponseWriter, r *http.Request) {
	dialogID, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := h.Store.AppendAdminMessage(r.Context(), dialogID, r.FormValue("message"))
	recordDialogOperation("reply", err, !res.Found)
	if err != nil {
		h.serverError(w, "Failed to send reply", err)
		return
	}
	if !res.Found {
		h.redirect(w, r, "/admin/dialogs", "", "")
		return
	}

	h.messageAppended(r, res.Value)
	h.redirect(w, r, "/admin/dialogs", "success", "Reply sent to dialog #"+strconv.Itoa(dialogID)+".")
}

func (h *AdminHandler) CloseDialog(w http.ResponseWriter, r *http.Request) {
	dialogID, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := h.Store.CloseDialog(r.Context(), dialogID)
	recordDialogOperation("close", err, !res.Found)
	if err != nil {
		h.serverError(w, "Failed to close dialog", err)
		return
	}
	if !res.Found {
		h.redirect(w, r, "/admin/dialogs", "", "")
		return
	}

	ev := events.New(events.DialogClosed)
	ev.DialogID = res.Value.ID
	ev.Username = res.Value.Originator.Username
	ev.Status = res.Value.Status
	h.publish(r, ev)

	h.redirect(w, r, "/admin/dialogs", "success", "Dialog #"+strconv.Itoa(dialogID)+" closed.")
}
