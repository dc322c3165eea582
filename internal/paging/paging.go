// Package paging режет уже отсортированные списки на страницы.
package paging

const DefaultPageSize = 20

// Page описывает одну страницу элементов.
type Page[T any] struct {
	Items    []T // элементы на текущей странице
	Page     int // номер страницы (с 1)
	PageSize int
	HasNext  bool
	HasPrev  bool
	Total    int // общее количество элементов
}

// Request — параметры страницы. Нулевое значение означает "весь список".
type Request struct {
	Page     int
	PageSize int
}

// All сообщает, что постраничная выдача не запрошена.
func (r Request) All() bool {
	return r.Page <= 0 && r.PageSize <= 0
}

// Paginate возвращает срез items для указанной страницы и метаданные.
// page нумеруется с 1; некорректные значения заменяются дефолтами.
// Для Request{} возвращается весь список одной страницей.
func Paginate[T any](items []T, req Request) Page[T] {
	total := len(items)
	if req.All() {
		return Page[T]{Items: items, Page: 1, PageSize: total, Total: total}
	}

	page, size := req.Page, req.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return Page[T]{
		Items:    items[start:end],
		Page:     page,
		PageSize: size,
		HasNext:  end < total,
		HasPrev:  page > 1,
		Total:    total,
	}
}
