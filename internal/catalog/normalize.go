package catalog

import (
	"math"
	"strconv"
	"strings"

	"storefront-sync/internal/models"
	"storefront-sync/internal/remote"
)

// Provider catalog payloads (snake_case, item -> variations -> price).

type ProviderObject struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	ItemData *ProviderItemData `json:"item_data"`
}

type ProviderItemData struct {
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	CategoryID  *string             `json:"category_id"`
	Variations  []ProviderVariation `json:"variations"`
}

type ProviderVariation struct {
	ID                string                 `json:"id"`
	ItemVariationData *ProviderVariationData `json:"item_variation_data"`
}

type ProviderVariationData struct {
	Name        *string     `json:"name"`
	PriceMoney  *PriceMoney `json:"price_money"`
	PricingType *string     `json:"pricing_type"`
}

type PriceMoney struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// ProviderCount is one per-location inventory count.
type ProviderCount struct {
	CatalogObjectID string  `json:"catalog_object_id"`
	Quantity        *string `json:"quantity"`
	LocationID      string  `json:"location_id,omitempty"`
}

// VariationIDs lists the ids that need inventory counts, in catalog order.
func VariationIDs(objects []ProviderObject) []string {
	ids := make([]string, 0)
	for _, obj := range objects {
		if obj.ItemData == nil {
			continue
		}
		for _, v := range obj.ItemData.Variations {
			if v.ItemVariationData != nil {
				ids = append(ids, v.ID)
			}
		}
	}
	return ids
}

// Normalize flattens provider objects into catalog items, preserving order.
// Objects without item data and variations without variation data are
// skipped. Variations absent from counts stay untracked.
func Normalize(objects []ProviderObject, counts map[string]float64) []models.CatalogItem {
	items := make([]models.CatalogItem, 0, len(objects))
	for _, obj := range objects {
		data := obj.ItemData
		if data == nil {
			continue
		}

		variations := make([]models.CatalogVariation, 0, len(data.Variations))
		for _, v := range data.Variations {
			vd := v.ItemVariationData
			if vd == nil {
				continue
			}
			variation := models.CatalogVariation{
				ID:   v.ID,
				Name: strValue(vd.Name),
			}
			if vd.PriceMoney != nil {
				amount := vd.PriceMoney.Amount
				variation.PriceCents = &amount
			}
			if qty, ok := counts[v.ID]; ok {
				q := qty
				variation.Quantity = &q
			}
			variations = append(variations, variation)
		}

		items = append(items, models.CatalogItem{
			ID:          obj.ID,
			Name:        strValue(data.Name),
			Description: strValue(data.Description),
			Category:    strValue(data.CategoryID),
			Variations:  variations,
		})
	}
	return items
}

// SumCounts totals quantities per catalog object id across locations.
// Missing or unparsable quantities count as zero.
func SumCounts(counts []ProviderCount) map[string]float64 {
	totals := make(map[string]float64, len(counts))
	for _, c := range counts {
		totals[c.CatalogObjectID] += parseQuantity(c.Quantity)
	}
	return totals
}

// GroupRows folds the dashboard's flat item/variation rows into items in
// first-seen order. Prices arrive in dollars and are stored in cents.
func GroupRows(rows []remote.CatalogRow) []models.CatalogItem {
	index := make(map[string]int)
	items := make([]models.CatalogItem, 0)

	for _, row := range rows {
		cents := int64(math.Round(row.Price * 100))
		variation := models.CatalogVariation{
			ID:         string(row.VariationID),
			Name:       row.VariationName,
			PriceCents: &cents,
		}

		id := string(row.ID)
		if i, ok := index[id]; ok {
			items[i].Variations = append(items[i].Variations, variation)
			continue
		}
		index[id] = len(items)
		items = append(items, models.CatalogItem{
			ID:          id,
			Name:        row.Name,
			Description: strValue(row.Description),
			Category:    strValue(row.Category),
			Variations:  []models.CatalogVariation{variation},
		})
	}
	return items
}

func parseQuantity(raw *string) float64 {
	if raw == nil {
		return 0
	}
	q, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
	if err != nil || math.IsNaN(q) || math.IsInf(q, 0) {
		return 0
	}
	return q
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
