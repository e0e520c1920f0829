package pagination

// Request is the offset pagination read from query parameters. Page is
// zero-based to match the wire contract between the two services.
type Request struct {
	Page int `form:"page,default=0"`
	Size int `form:"size,default=10"`
}

// Normalize clamps the request into a usable range.
func (r Request) Normalize(maxSize int) Request {
	if r.Page < 0 {
		r.Page = 0
	}
	if r.Size <= 0 {
		r.Size = 10
	}
	if maxSize > 0 && r.Size > maxSize {
		r.Size = maxSize
	}
	return r
}

// Offset returns the row offset for the normalized request.
func (r Request) Offset() int {
	return r.Page * r.Size
}

// Page is the wire shape both services emit and both remote clients parse.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// NewPage assembles a Page view from one page of content and the total count.
func NewPage[T any](content []T, total int64, req Request) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages,
		Number:        req.Page,
		Size:          req.Size,
	}
}
