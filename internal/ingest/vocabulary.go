// internal/ingest/vocabulary.go
package ingest

// CurrencySymbol maps a symbol that may appear in a cost cell to its code.
// Detection walks the slice in order, so longer symbols must come first.
type CurrencySymbol struct {
	Symbol string
	Code   string
}

// KeywordRule is the fuzzy fallback for one canonical field: a header
// matches when it contains any Include keyword and none of the Excludes.
type KeywordRule struct {
	Include []string
	Exclude []string
}

// Vocabulary is the immutable lookup data the normalizer and coercer run on.
// Injected rather than hard-coded so tests can run alternate vocabularies.
type Vocabulary struct {
	// Synonyms lists, per canonical field, the exact snake_case keys to
	// probe in order. Exact matching always runs before keyword matching.
	Synonyms map[string][]string
	// Keywords is the substring fallback used only when every synonym
	// candidate is absent or empty.
	Keywords map[string]KeywordRule
	// CurrencySymbols drive both coercion stripping and currency detection.
	CurrencySymbols []CurrencySymbol
	// DefaultCurrency is used when no symbol is present in the cost cell.
	DefaultCurrency string
}

// Canonical field keys shared by both pipelines.
const (
	FieldCampaignID    = "campaign_id"
	FieldCampaignName  = "campaign_name"
	FieldCampaignGroup = "campaign_group"
	FieldCost          = "cost"
	FieldNetCost       = "net_cost"
	FieldLiveViews     = "live_views"
	FieldOrdersSKU     = "orders_sku"
	FieldGrossRevenue  = "gross_revenue"
	FieldROI           = "roi"
)

// DefaultVocabulary returns the production column vocabulary for TikTok
// Live GMV / Product GMV exports.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Synonyms: map[string][]string{
			FieldCampaignID:    {"campaign_id", "id"},
			FieldCampaignName:  {"campaign_name", "campaign", "name"},
			FieldCampaignGroup: {"campaign_group", "group"},
			FieldCost:          {"cost", "spend", "amount_spent"},
			FieldNetCost:       {"net_cost", "net_spend"},
			FieldLiveViews:     {"live_views", "live_view", "views"},
			FieldOrdersSKU:     {"orders_sku", "sku_orders", "orders"},
			FieldGrossRevenue:  {"gross_revenue", "gross_gmv", "gmv", "revenue"},
			FieldROI:           {"roi"},
		},
		Keywords: map[string]KeywordRule{
			FieldGrossRevenue: {
				Include: []string{"revenue", "gmv"},
				Exclude: []string{"cost", "roi"},
			},
			FieldOrdersSKU: {
				Include: []string{"order"},
			},
			FieldLiveViews: {
				Include: []string{"view"},
			},
			FieldNetCost: {
				Include: []string{"net"},
				Exclude: []string{"revenue", "gmv"},
			},
		},
		CurrencySymbols: []CurrencySymbol{
			{Symbol: "RM", Code: "MYR"},
			{Symbol: "S$", Code: "SGD"},
			{Symbol: "Rp", Code: "IDR"},
			{Symbol: "$", Code: "USD"},
			{Symbol: "€", Code: "EUR"},
			{Symbol: "£", Code: "GBP"},
			{Symbol: "¥", Code: "JPY"},
			{Symbol: "₫", Code: "VND"},
			{Symbol: "฿", Code: "THB"},
		},
		DefaultCurrency: "MYR",
	}
}
