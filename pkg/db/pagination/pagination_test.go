package pagination

import "testing"

func TestNormalizeClampsPageAndSize(t *testing.T) {
	cases := []struct {
		in       Request
		maxSize  int
		wantPage int
		wantSize int
	}{
		{Request{Page: -1, Size: 0}, 100, 0, 10},
		{Request{Page: 2, Size: 50}, 100, 2, 50},
		{Request{Page: 0, Size: 500}, 100, 0, 100},
		{Request{Page: 0, Size: -5}, 100, 0, 10},
	}
	for _, tc := range cases {
		got := tc.in.Normalize(tc.maxSize)
		if got.Page != tc.wantPage || got.Size != tc.wantSize {
			t.Fatalf("Normalize(%+v, %d) = %+v, want page=%d size=%d", tc.in, tc.maxSize, got, tc.wantPage, tc.wantSize)
		}
	}
}

func TestNewPageComputesTotals(t *testing.T) {
	page := NewPage([]int{1, 2, 3}, 7, Request{Page: 1, Size: 3})
	if page.TotalElements != 7 || page.TotalPages != 3 {
		t.Fatalf("unexpected totals %+v", page)
	}
	if page.Number != 1 || page.Size != 3 {
		t.Fatalf("unexpected window %+v", page)
	}
}

func TestNewPageEmpty(t *testing.T) {
	page := NewPage[string](nil, 0, Request{Page: 0, Size: 10})
	if page.TotalPages != 0 || len(page.Content) != 0 {
		t.Fatalf("unexpected empty page %+v", page)
	}
	if page.Content == nil {
		t.Fatalf("content must marshal as [], not null")
	}
}
