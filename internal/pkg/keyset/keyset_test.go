package keyset

import "testing"

func TestClampLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"zero uses default", 0, DefaultLimit},
		{"negative uses default", -5, DefaultLimit},
		{"one is allowed", 1, 1},
		{"in range unchanged", 42, 42},
		{"max is allowed", MaxLimit, MaxLimit},
		{"above max is clamped", MaxLimit + 1, MaxLimit},
		{"far above max is clamped", 100000, MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampLimit(tt.limit); got != tt.want {
				t.Errorf("ClampLimit(%d) = %d, want %d", tt.limit, got, tt.want)
			}
		})
	}
}

func TestPageNormalize(t *testing.T) {
	page := Page{After: 17, Limit: 0}.Normalize()

	if page.After != 17 {
		t.Errorf("Normalize changed After: got %d, want 17", page.After)
	}
	if page.Limit != DefaultLimit {
		t.Errorf("Normalize limit = %d, want %d", page.Limit, DefaultLimit)
	}
}

func TestTrimFullPage(t *testing.T) {
	// Fetched limit+1 rows means another page exists.
	pageLen, res := Trim(21, 20, 120)

	if pageLen != 20 {
		t.Errorf("pageLen = %d, want 20", pageLen)
	}
	if !res.HasMore {
		t.Error("HasMore = false, want true")
	}
	if res.Cursor != 120 {
		t.Errorf("Cursor = %d, want 120", res.Cursor)
	}
	if res.Count != 20 {
		t.Errorf("Count = %d, want 20", res.Count)
	}
}

func TestTrimLastPage(t *testing.T) {
	pageLen, res := Trim(7, 20, 55)

	if pageLen != 7 {
		t.Errorf("pageLen = %d, want 7", pageLen)
	}
	if res.HasMore {
		t.Error("HasMore = true, want false")
	}
	if res.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0 on the final page", res.Cursor)
	}
	if res.Count != 7 {
		t.Errorf("Count = %d, want 7", res.Count)
	}
}

func TestTrimExactlyFullLastPage(t *testing.T) {
	// Exactly limit rows fetched: the page is full but nothing follows.
	pageLen, res := Trim(20, 20, 99)

	if pageLen != 20 {
		t.Errorf("pageLen = %d, want 20", pageLen)
	}
	if res.HasMore {
		t.Error("HasMore = true, want false when no extra row was fetched")
	}
}

func TestTrimEmpty(t *testing.T) {
	pageLen, res := Trim(0, 20, 0)

	if pageLen != 0 {
		t.Errorf("pageLen = %d, want 0", pageLen)
	}
	if res.HasMore || res.Cursor != 0 || res.Count != 0 {
		t.Errorf("empty result = %+v, want zero values", res)
	}
}
