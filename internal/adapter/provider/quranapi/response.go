package quranapi

// apiPageResponse is the body of GET /verses/by_page/{page}.
type apiPageResponse struct {
	Verses     []apiVerse     `json:"verses"`
	Pagination *apiPagination `json:"pagination"`
}

// apiVerse is one verse with its words. Verses arrive in mushaf order.
type apiVerse struct {
	ID          int       `json:"id"`
	VerseKey    string    `json:"verse_key"`
	VerseNumber int       `json:"verse_number"`
	PageNumber  int       `json:"page_number"`
	Words       []apiWord `json:"words"`
}

// apiWord carries the fields requested through word_fields.
type apiWord struct {
	ID           int64  `json:"id"`
	Position     int    `json:"position"`
	Text         string `json:"text"`
	TextUthmani  string `json:"text_uthmani"`
	CharTypeName string `json:"char_type_name"`
	LineNumber   int    `json:"line_number"`
	PageNumber   int    `json:"page_number"`
}

// apiPagination is present even with per_page=all. A next page means the
// verse list was cut short.
type apiPagination struct {
	CurrentPage int  `json:"current_page"`
	NextPage    *int `json:"next_page"`
	TotalPages  int  `json:"total_pages"`
}
