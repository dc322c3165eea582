package paging

import "testing"

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name     string
		req      Request
		want     []int
		hasNext  bool
		hasPrev  bool
		wantSize int
	}{
		{name: "whole list", req: Request{}, want: items, wantSize: 5},
		{name: "first page", req: Request{Page: 1, PageSize: 2}, want: []int{1, 2}, hasNext: true, wantSize: 2},
		{name: "middle page", req: Request{Page: 2, PageSize: 2}, want: []int{3, 4}, hasNext: true, hasPrev: true, wantSize: 2},
		{name: "last partial page", req: Request{Page: 3, PageSize: 2}, want: []int{5}, hasPrev: true, wantSize: 2},
		{name: "past the end", req: Request{Page: 9, PageSize: 2}, want: []int{}, hasPrev: true, wantSize: 2},
		{name: "default size", req: Request{Page: 1}, want: items, wantSize: DefaultPageSize},
		{name: "page defaults to first", req: Request{PageSize: 3}, want: []int{1, 2, 3}, hasNext: true, wantSize: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(items, tt.req)
			if len(p.Items) != len(tt.want) {
				t.Fatalf("items = %v, want %v", p.Items, tt.want)
			}
			for i := range tt.want {
				if p.Items[i] != tt.want[i] {
					t.Fatalf("items = %v, want %v", p.Items, tt.want)
				}
			}
			if p.HasNext != tt.hasNext || p.HasPrev != tt.hasPrev {
				t.Fatalf("hasNext=%v hasPrev=%v, want %v %v", p.HasNext, p.HasPrev, tt.hasNext, tt.hasPrev)
			}
			if p.PageSize != tt.wantSize {
				t.Fatalf("pageSize = %d, want %d", p.PageSize, tt.wantSize)
			}
			if p.Total != len(items) {
				t.Fatalf("total = %d, want %d", p.Total, len(items))
			}
		})
	}
}
