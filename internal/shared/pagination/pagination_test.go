package pagination

import "testing"

func pageNumbers(pages []Page) []int {
	numbers := make([]int, 0, len(pages))
	for _, p := range pages {
		if !p.Ellipsis {
			numbers = append(numbers, p.Number)
		}
	}
	return numbers
}

func TestWindowEmptyWhenNoPages(t *testing.T) {
	if pages := Window(0, 1, 2, 2, 4, 2); len(pages) != 0 {
		t.Fatalf("expected empty window, got %v", pages)
	}
}

func TestWindowWithoutEllipses(t *testing.T) {
	pages := Window(10, 5, 2, 2, 4, 2)
	numbers := pageNumbers(pages)
	if len(numbers) != len(pages) {
		t.Fatalf("expected no ellipsis markers, got %v", pages)
	}
	for i, n := range numbers {
		if n != i+1 {
			t.Fatalf("expected pages 1..10, got %v", numbers)
		}
	}
	if numbers[len(numbers)-1] != 10 {
		t.Fatalf("expected window to end at 10, got %v", numbers)
	}
}

func TestWindowWithEllipses(t *testing.T) {
	pages := Window(100, 1, 2, 2, 4, 2)
	expected := []Page{
		{Number: 1}, {Number: 2}, {Number: 3}, {Number: 4}, {Number: 5},
		{Ellipsis: true},
		{Number: 99}, {Number: 100},
	}
	if len(pages) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, pages)
	}
	for i := range expected {
		if pages[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, pages)
		}
	}
}

func TestWindowNoDuplicatesOrDoubleEllipsis(t *testing.T) {
	for current := 1; current <= 50; current++ {
		pages := Window(50, current, 2, 2, 4, 2)
		seen := make(map[int]bool)
		previousEllipsis := false
		for _, p := range pages {
			if p.Ellipsis {
				if previousEllipsis {
					t.Fatalf("current=%d: consecutive ellipsis markers in %v", current, pages)
				}
				previousEllipsis = true
				continue
			}
			previousEllipsis = false
			if seen[p.Number] {
				t.Fatalf("current=%d: duplicate page %d in %v", current, p.Number, pages)
			}
			seen[p.Number] = true
		}
		if pages[len(pages)-1].Number != 50 {
			t.Fatalf("current=%d: window must end at last page, got %v", current, pages)
		}
	}
}

func TestNewPaginatedClampsPage(t *testing.T) {
	paginated := NewPaginated([]int{1, 2, 3}, 0, 3)
	if paginated.Page != 1 {
		t.Fatalf("expected page clamped to 1, got %d", paginated.Page)
	}
	numbers := pageNumbers(paginated.Pages)
	if len(numbers) != 3 || numbers[0] != 1 || numbers[2] != 3 {
		t.Fatalf("expected pages 1..3, got %v", paginated.Pages)
	}
}

func TestTotalPages(t *testing.T) {
	if got := TotalPages(0, 25); got != 0 {
		t.Fatalf("expected 0 pages, got %d", got)
	}
	if got := TotalPages(25, 25); got != 1 {
		t.Fatalf("expected 1 page, got %d", got)
	}
	if got := TotalPages(26, 25); got != 2 {
		t.Fatalf("expected 2 pages, got %d", got)
	}
}

func TestRequestOffset(t *testing.T) {
	if got := (Request{Page: 0, PerPage: 25}).Offset(); got != 0 {
		t.Fatalf("expected offset 0 for clamped page, got %d", got)
	}
	if got := (Request{Page: 3, PerPage: 25}).Offset(); got != 50 {
		t.Fatalf("expected offset 50, got %d", got)
	}
}
