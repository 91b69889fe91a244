package handlers

import (
	"net/http"
	"sort"

	"github.com/alextreichler/storefront/internal/models"
)

type AdminHandler struct {
	*Base
}

// StatusCount is one row of the dashboard status breakdown.
type StatusCount struct {
	Status string
	Count  int
}

// Dashboard shows the counters; render fills them in for every admin page.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	counters, err := h.Store.Counters(r.Context())
	if err != nil {
		h.serverError(w, "Error fetching stats", err)
		return
	}
	h.render(w, r, "admin.html", map[string]any{
		"Breakdown": statusBreakdown(counters.OrdersByStatus),
	})
}

// statusBreakdown lists the known statuses first, then any custom ones alphabetically.
func statusBreakdown(byStatus map[string]int) []StatusCount {
	var rows []StatusCount
	seen := make(map[string]bool)
	for _, s := range models.OrderStatuses {
		rows = append(rows, StatusCount{Status: s, Count: byStatus[s]})
		seen[s] = true
	}
	var extra []string
	for s := range byStatus {
		if !seen[s] {
			extra = append(extra, s)
		}
	}
	sort.Strings(extra)
	for _, s := range extra {
		rows = append(rows, StatusCount{Status: s, Count: byStatus[s]})
	}
	return rows
}
