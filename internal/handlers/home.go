package handlers

import (
	"net/http"
	"sort"

	"github.com/alextreichler/storefront/internal/models"
)

type HomeHandler struct {
	*Base
}

// Index lists the catalog grouped by category.
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.Catalog.Load()
	if err != nil {
		h.serverError(w, "Error loading catalog", err)
		return
	}

	products := append([]models.Product(nil), catalog.Products...)
	sort.SliceStable(products, func(i, j int) bool {
		if products[i].CategoryID != products[j].CategoryID {
			return products[i].CategoryID < products[j].CategoryID
		}
		return products[i].ID < products[j].ID
	})

	categories := make(map[int]string, len(catalog.Categories))
	for _, c := range catalog.Categories {
		categories[c.ID] = c.Name
	}

	h.render(w, r, "home.html", map[string]any{
		"Products":   products,
		"Categories": categories,
		"News":       catalog.News,
		"Sales":      catalog.Sales,
	})
}
