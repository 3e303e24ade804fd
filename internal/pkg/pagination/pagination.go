package pagination

// Params clamps page/limit to sane bounds. Defaults match the original
// listing pages (12 per page, max 100).
type Params struct {
	Page   int
	Limit  int
	Offset int
}

type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

func Normalize(page, limit int) Params {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 12
	}
	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

func NewMeta(total int64, p Params) Meta {
	pages := int(total) / p.Limit
	if int(total)%p.Limit != 0 {
		pages++
	}
	return Meta{
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: pages,
	}
}
