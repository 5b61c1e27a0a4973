package handler

import (
	"net/url"
	"testing"
)

func TestBuildAdminPagination_SinglePage(t *testing.T) {
	p := BuildAdminPagination(1, 5, 20, "/admin/pages", nil)

	if p.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", p.TotalPages)
	}
	if p.ShouldShow() {
		t.Error("ShouldShow() = true for a single page")
	}
	if p.HasPrev || p.HasNext {
		t.Error("single page should have no prev/next")
	}
}

func TestBuildAdminPagination_Empty(t *testing.T) {
	p := BuildAdminPagination(1, 0, 20, "/admin/pages", nil)

	if p.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1 for empty list", p.TotalPages)
	}
}

func TestBuildAdminPagination_MiddlePage(t *testing.T) {
	// 100 items at 10 per page = 10 pages, current page 5
	p := BuildAdminPagination(5, 100, 10, "/admin/events", nil)

	if p.TotalPages != 10 {
		t.Errorf("TotalPages = %d, want 10", p.TotalPages)
	}
	if !p.HasPrev || !p.HasNext {
		t.Error("middle page should have prev and next")
	}
	if p.PrevURL() != "/admin/events?page=4" {
		t.Errorf("PrevURL = %q", p.PrevURL())
	}
	if p.NextURL() != "/admin/events?page=6" {
		t.Errorf("NextURL = %q", p.NextURL())
	}

	// Window is 3..7 plus first/last links with ellipses
	var numbers []int
	var ellipses int
	for _, page := range p.Pages {
		if page.IsEllipsis {
			ellipses++
			continue
		}
		numbers = append(numbers, page.Number)
	}
	want := []int{1, 3, 4, 5, 6, 7, 10}
	if len(numbers) != len(want) {
		t.Fatalf("page numbers = %v, want %v", numbers, want)
	}
	for i := range want {
		if numbers[i] != want[i] {
			t.Fatalf("page numbers = %v, want %v", numbers, want)
		}
	}
	if ellipses != 2 {
		t.Errorf("ellipses = %d, want 2", ellipses)
	}
}

func TestBuildAdminPagination_CurrentMarked(t *testing.T) {
	p := BuildAdminPagination(2, 60, 20, "/admin/users", nil)

	for _, page := range p.Pages {
		if page.Number == 2 && !page.IsCurrent {
			t.Error("current page not marked")
		}
		if page.Number != 2 && page.IsCurrent {
			t.Errorf("page %d wrongly marked current", page.Number)
		}
	}
}

func TestBuildAdminPagination_PreservesQuery(t *testing.T) {
	params := url.Values{"level": {"warn"}, "page": {"3"}}
	p := BuildAdminPagination(3, 200, 20, "/admin/events", params)

	want := "/admin/events?level=warn&page=4"
	if got := p.NextURL(); got != want {
		t.Errorf("NextURL = %q, want %q", got, want)
	}
}

func TestAdminPaginationPageRange(t *testing.T) {
	p := BuildAdminPagination(2, 45, 20, "/admin/pages", nil)

	if got := p.PageRange(); got != "21-40" {
		t.Errorf("PageRange = %q, want 21-40", got)
	}

	p = BuildAdminPagination(3, 45, 20, "/admin/pages", nil)
	if got := p.PageRange(); got != "41-45" {
		t.Errorf("PageRange = %q, want 41-45", got)
	}
}
