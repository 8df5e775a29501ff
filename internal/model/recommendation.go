package model

// Recommendations is the transient per-request result of the two
// recommendation strategies. The lists are returned side by side:
// no deduplication, merging or cross-ranking between them.
type Recommendations struct {
	ByGenres       []Movie `json:"byGenres"`
	BySimilarUsers []Movie `json:"bySimilarUsers"`
}
