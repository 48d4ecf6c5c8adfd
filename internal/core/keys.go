package core

// Ranked key tables shared by the extractor and the normalizer. The tables
// are data, consulted in order, so adding an alias never touches logic.

// ContainerKeys are field names known to hold the list of records inside a
// wrapping object, most common first.
var ContainerKeys = []string{"items", "data", "list", "rows", "results", "records", "news", "articles"}

// BodyKeys are the recognized body-text aliases, most common first.
var BodyKeys = []string{"contents", "content", "text", "body", "description", "desc", "article", "contentBody", "content_html", "html"}

// TitleKeys are the recognized title aliases, most common first.
var TitleKeys = []string{"title", "headline", "subject", "name"}

// IDKeys are the identifier keys matched exactly, in priority order, before
// any fuzzy key-name matching is attempted.
var IDKeys = []string{
	"NewsItemId", "news_item_id",
	"newsIdentifyId", "newsIdentifyID", "newsidentifyid",
	"newsId", "newsID",
	"id",
}

// IsRecordLike reports whether m carries at least one recognized body-key
// alias holding a non-empty string value.
func IsRecordLike(m CandidateRecord) bool {
	for _, k := range BodyKeys {
		if s, ok := m[k].(string); ok && s != "" {
			return true
		}
	}
	return false
}
