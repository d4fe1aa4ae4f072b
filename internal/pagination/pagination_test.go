package pagination

import "testing"

func intsUpTo(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginateMiddlePage(t *testing.T) {
	env := Paginate(intsUpTo(12), 2, 5, "/api/konsumen")

	if env.CurrentPage != 2 {
		t.Fatalf("expected current_page 2, got %d", env.CurrentPage)
	}
	if env.Total != 12 || env.LastPage != 3 {
		t.Fatalf("expected total 12 / last_page 3, got %d / %d", env.Total, env.LastPage)
	}
	if len(env.Data) != 5 {
		t.Fatalf("expected 5 records, got %d", len(env.Data))
	}
	if env.From == nil || *env.From != 6 || env.To == nil || *env.To != 10 {
		t.Fatalf("expected from=6 to=10, got %v %v", env.From, env.To)
	}
	if env.PrevPageURL == nil || *env.PrevPageURL != "/api/konsumen?page=1" {
		t.Fatalf("unexpected prev_page_url: %v", env.PrevPageURL)
	}
	if env.NextPageURL == nil || *env.NextPageURL != "/api/konsumen?page=3" {
		t.Fatalf("unexpected next_page_url: %v", env.NextPageURL)
	}
}

func TestPaginateBeyondLastPage(t *testing.T) {
	env := Paginate(intsUpTo(12), 9, 5, "/api/konsumen")

	if env.CurrentPage != 9 {
		t.Fatalf("requested page must be echoed back, got %d", env.CurrentPage)
	}
	if len(env.Data) != 0 {
		t.Fatalf("expected empty data, got %d records", len(env.Data))
	}
	if env.From != nil || env.To != nil {
		t.Fatalf("expected null from/to, got %v %v", env.From, env.To)
	}
	if env.LastPage != 3 || env.Total != 12 {
		t.Fatalf("metadata must reflect the true set: last_page=%d total=%d", env.LastPage, env.Total)
	}
	if env.NextPageURL != nil {
		t.Fatalf("expected null next_page_url beyond last page")
	}
}

func TestPaginateEmptySet(t *testing.T) {
	env := Paginate([]int{}, 1, 10, "/api/property")

	if env.LastPage != 1 {
		t.Fatalf("last_page has a floor of 1, got %d", env.LastPage)
	}
	if env.Total != 0 || len(env.Data) != 0 {
		t.Fatalf("expected empty page, got total=%d len=%d", env.Total, len(env.Data))
	}
	if env.From != nil || env.To != nil {
		t.Fatalf("expected null from/to on empty page")
	}
}

func TestPaginateClampsPerPage(t *testing.T) {
	env := Paginate(intsUpTo(3), 1, 0, "/api/pesan")

	if env.PerPage != 1 {
		t.Fatalf("per_page must clamp to 1, got %d", env.PerPage)
	}
	if env.LastPage != 3 {
		t.Fatalf("expected 3 pages of one record, got %d", env.LastPage)
	}
}

// Pages must partition the input: disjoint slices whose lengths sum to total.
func TestPaginatePartition(t *testing.T) {
	for _, total := range []int{0, 1, 9, 10, 11, 37} {
		for _, perPage := range []int{1, 3, 10} {
			records := intsUpTo(total)
			first := Paginate(records, 1, perPage, "/x")

			seen := make(map[int]bool)
			count := 0
			for page := 1; page <= first.LastPage; page++ {
				env := Paginate(records, page, perPage, "/x")
				for _, v := range env.Data {
					if seen[v] {
						t.Fatalf("total=%d perPage=%d: record %d appears twice", total, perPage, v)
					}
					seen[v] = true
					count++
				}
			}
			if count != total {
				t.Fatalf("total=%d perPage=%d: slices sum to %d", total, perPage, count)
			}
		}
	}
}

func TestPaginateLinks(t *testing.T) {
	env := Paginate(intsUpTo(12), 2, 5, "/api/konsumen")

	// previous + 3 pages + next
	if len(env.Links) != 5 {
		t.Fatalf("expected 5 links, got %d", len(env.Links))
	}
	if env.Links[0].Label != "&laquo; Previous" || env.Links[0].URL == nil {
		t.Fatalf("unexpected previous link: %+v", env.Links[0])
	}
	if !env.Links[2].Active || env.Links[2].Label != "2" {
		t.Fatalf("page 2 link should be active: %+v", env.Links[2])
	}
	if env.Links[1].Active || env.Links[3].Active {
		t.Fatalf("only the current page may be active")
	}
	if env.Links[4].Label != "Next &raquo;" || env.Links[4].URL == nil {
		t.Fatalf("unexpected next link: %+v", env.Links[4])
	}
}

func TestParsePage(t *testing.T) {
	if got := ParsePage(""); got != 1 {
		t.Fatalf("missing page should default to 1, got %d", got)
	}
	if got := ParsePage("abc"); got != 1 {
		t.Fatalf("non-numeric page should default to 1, got %d", got)
	}
	if got := ParsePage("-2"); got != 1 {
		t.Fatalf("negative page should default to 1, got %d", got)
	}
	if got := ParsePage("7"); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}

func TestParsePerPage(t *testing.T) {
	if got := ParsePerPage("", 10); got != 10 {
		t.Fatalf("missing per_page should take the fallback, got %d", got)
	}
	if got := ParsePerPage("0", 10); got != 10 {
		t.Fatalf("zero per_page should take the fallback, got %d", got)
	}
	if got := ParsePerPage("25", 10); got != 25 {
		t.Fatalf("expected 25, got %d", got)
	}
}
