package domain

// MaxHistory is how many recently viewed products are kept.
const MaxHistory = 5

// History lists recently viewed products, most recent first.
type History struct {
	Items []Product `json:"items"`
}

// Add records a view of p. A product already in the history is left where it
// is. Reports whether the history changed.
func (h *History) Add(p Product) bool {
	if IndexOf(h.Items, p.ID) >= 0 {
		return false
	}
	items := make([]Product, 0, MaxHistory)
	items = append(items, p.Clone())
	for _, existing := range h.Items {
		if len(items) == MaxHistory {
			break
		}
		items = append(items, existing)
	}
	h.Items = items
	return true
}

// Snapshot returns a deep copy of the items.
func (h *History) Snapshot() []Product {
	return CloneProducts(h.Items)
}
