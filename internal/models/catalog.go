package models

// LowStockThreshold is the highest total tracked quantity still flagged as low stock.
const LowStockThreshold = 5

// CatalogVariation is a sellable variant of a catalog item.
// Quantity is nil when the provider does not track inventory for it.
type CatalogVariation struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	PriceCents *int64   `json:"priceCents,omitempty"`
	Quantity   *float64 `json:"quantity,omitempty"`
}

// IsTracked reports whether inventory is tracked for the variation.
func (v CatalogVariation) IsTracked() bool {
	return v.Quantity != nil
}

// IsSoldOut reports a tracked variation with nothing left. Untracked
// variations are always purchasable.
func (v CatalogVariation) IsSoldOut() bool {
	return v.Quantity != nil && *v.Quantity <= 0
}

// CatalogItem is a menu entry with its variations.
type CatalogItem struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Category    string             `json:"category,omitempty"`
	Variations  []CatalogVariation `json:"variations"`
}

// TotalTrackedQuantity sums quantities across tracked variations.
func (i CatalogItem) TotalTrackedQuantity() (total float64, tracked bool) {
	for _, v := range i.Variations {
		if v.Quantity == nil {
			continue
		}
		tracked = true
		total += *v.Quantity
	}
	return total, tracked
}

// IsSoldOut is true only when at least one variation is tracked and nothing
// can be bought: every tracked variation is at or below zero and no untracked
// variation remains to sell.
func (i CatalogItem) IsSoldOut() bool {
	tracked := false
	for _, v := range i.Variations {
		if v.Quantity == nil {
			return false
		}
		tracked = true
		if *v.Quantity > 0 {
			return false
		}
	}
	return tracked
}

// IsLowStock is true when 0 < total tracked quantity <= LowStockThreshold.
func (i CatalogItem) IsLowStock() bool {
	total, tracked := i.TotalTrackedQuantity()
	return tracked && total > 0 && total <= LowStockThreshold
}

// LowestPrice returns the cheapest priced variation, if any has a price.
func (i CatalogItem) LowestPrice() (int64, bool) {
	var lowest int64
	found := false
	for _, v := range i.Variations {
		if v.PriceCents == nil {
			continue
		}
		if !found || *v.PriceCents < lowest {
			lowest = *v.PriceCents
			found = true
		}
	}
	return lowest, found
}
