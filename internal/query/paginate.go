package query

import "github.com/HerbHall/winegallery/pkg/models"

// Page size limits.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// windowSpan is the count of consecutive page numbers shown around the
// current page.
const windowSpan = 5

// Page is one slice of an ordered result.
type Page struct {
	Items      []models.Wine `json:"items"`
	Number     int           `json:"page"`
	Size       int           `json:"page_size"`
	Total      int           `json:"total"`
	TotalPages int           `json:"total_pages"`
}

// TotalPages returns ceil(count/pageSize), using DefaultPageSize when
// pageSize is not positive.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if count <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// Paginate returns page number of records. Pages below 1 read as 1; pages
// past the end yield no items.
func Paginate(records []models.Wine, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	p := Page{
		Items:      []models.Wine{},
		Number:     page,
		Size:       pageSize,
		Total:      len(records),
		TotalPages: TotalPages(len(records), pageSize),
	}

	// Compare against TotalPages before multiplying so huge pages cannot
	// overflow into a valid offset.
	if page > p.TotalPages {
		return p
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(records))
	p.Items = records[start:end]
	return p
}

// PageLink is one entry of the page-number window. Ellipsis entries have
// Number zero.
type PageLink struct {
	Number   int  `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Current  bool `json:"current,omitempty"`
}

// Window returns the page-number display for current page of total: up to
// five consecutive numbers around current, shifted inside [1, total], with
// "1 …" prepended when the run starts after 1 and "… total" appended when
// it ends before total.
func Window(current, total int) []PageLink {
	if total <= 0 {
		return []PageLink{}
	}
	current = max(1, min(current, total))

	half := windowSpan / 2
	start, end := current-half, current+half
	if start < 1 {
		start = 1
		end = min(windowSpan, total)
	}
	if end > total {
		end = total
		start = max(total-windowSpan+1, 1)
	}

	links := make([]PageLink, 0, windowSpan+4)
	if start > 1 {
		links = append(links, PageLink{Number: 1}, PageLink{Ellipsis: true})
	}
	for n := start; n <= end; n++ {
		links = append(links, PageLink{Number: n, Current: n == current})
	}
	if end < total {
		links = append(links, PageLink{Ellipsis: true}, PageLink{Number: total})
	}
	return links
}
