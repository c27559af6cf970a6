package domain

// Wishlist holds saved products, each ID at most once.
type Wishlist struct {
	Items []Product `json:"items"`
}

// Add saves p unless it is already present. Reports whether it was added.
func (w *Wishlist) Add(p Product) bool {
	if w.Contains(p.ID) {
		return false
	}
	w.Items = append(w.Items, p.Clone())
	return true
}

// Remove deletes id if present. Reports whether anything was removed.
func (w *Wishlist) Remove(id int64) bool {
	i := IndexOf(w.Items, id)
	if i < 0 {
		return false
	}
	w.Items = append(w.Items[:i], w.Items[i+1:]...)
	return true
}

func (w *Wishlist) Contains(id int64) bool {
	return IndexOf(w.Items, id) >= 0
}

// Toggle removes p when saved and saves it otherwise. Reports whether p is
// saved afterwards.
func (w *Wishlist) Toggle(p Product) bool {
	if w.Remove(p.ID) {
		return false
	}
	w.Items = append(w.Items, p.Clone())
	return true
}
