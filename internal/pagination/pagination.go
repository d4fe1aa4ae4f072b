package pagination

import (
	"fmt"
	"strconv"
	"strings"
)

const DefaultPerPage = 10

// Link is one entry of the enumerated page-link list: previous, one entry
// per page number, next.
type Link struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

// Page is the list-response envelope. Field names and shape follow the
// dashboard client's expectations (Laravel paginator layout).
type Page[T any] struct {
	CurrentPage  int     `json:"current_page"`
	Data         []T     `json:"data"`
	FirstPageURL string  `json:"first_page_url"`
	From         *int    `json:"from"`
	LastPage     int     `json:"last_page"`
	LastPageURL  string  `json:"last_page_url"`
	Links        []Link  `json:"links"`
	NextPageURL  *string `json:"next_page_url"`
	Path         string  `json:"path"`
	PerPage      int     `json:"per_page"`
	PrevPageURL  *string `json:"prev_page_url"`
	To           *int    `json:"to"`
	Total        int     `json:"total"`
}

// Paginate slices an already-filtered, order-stable sequence into the page
// envelope. page below 1 is treated as 1; perPage is clamped to a minimum of
// 1 so last_page is always well defined. A page beyond last_page is echoed
// back unchanged with an empty data slice and null from/to while total and
// last_page keep reporting the true filtered count.
func Paginate[T any](records []T, page int, perPage int, path string) Page[T] {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}

	total := len(records)
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	data := make([]T, end-start)
	copy(data, records[start:end])

	var from, to *int
	if len(data) > 0 {
		f := start + 1
		t := end
		from, to = &f, &t
	}

	env := Page[T]{
		CurrentPage:  page,
		Data:         data,
		FirstPageURL: pageURL(path, 1),
		From:         from,
		LastPage:     lastPage,
		LastPageURL:  pageURL(path, lastPage),
		Links:        buildLinks(path, page, lastPage),
		Path:         path,
		PerPage:      perPage,
		To:           to,
		Total:        total,
	}
	if page > 1 && page-1 <= lastPage {
		prev := pageURL(path, page-1)
		env.PrevPageURL = &prev
	}
	if page < lastPage {
		next := pageURL(path, page+1)
		env.NextPageURL = &next
	}
	return env
}

func buildLinks(path string, page int, lastPage int) []Link {
	links := make([]Link, 0, lastPage+2)

	prev := Link{Label: "&laquo; Previous"}
	if page > 1 && page-1 <= lastPage {
		url := pageURL(path, page-1)
		prev.URL = &url
	}
	links = append(links, prev)

	for p := 1; p <= lastPage; p++ {
		url := pageURL(path, p)
		links = append(links, Link{
			URL:    &url,
			Label:  strconv.Itoa(p),
			Active: p == page,
		})
	}

	next := Link{Label: "Next &raquo;"}
	if page < lastPage {
		url := pageURL(path, page+1)
		next.URL = &url
	}
	links = append(links, next)

	return links
}

func pageURL(path string, page int) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%spage=%d", path, sep, page)
}

// ParsePage coerces the page query parameter: non-numeric, missing, or
// non-positive values fall back to 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// ParsePerPage coerces per_page with a per-endpoint fallback and a minimum
// of 1.
func ParsePerPage(raw string, fallback int) int {
	if fallback < 1 {
		fallback = DefaultPerPage
	}
	perPage, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || perPage < 1 {
		return fallback
	}
	return perPage
}
