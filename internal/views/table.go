package views

import (
	"cmp"
	"slices"
	"strconv"
)

const DefaultPageSize = 10

var PageSizes = []int{10, 25, 50, 100}

// TableQuery is the sort and paging state requested by the user. Page is
// 1-based; zero values select the table's defaults.
type TableQuery struct {
	Sort     string
	Desc     bool
	Page     int
	PageSize int
}

type ColumnView struct {
	Key    string
	Label  string
	Sorted bool
	Desc   bool
}

type TableView struct {
	Columns    []ColumnView
	Sort       string
	Desc       bool
	Page       int
	PageSize   int
	PageSizes  []int
	TotalRows  int
	TotalPages int
	PrevPage   int
	NextPage   int
	Info       string
}

func (table TableView) HasPrev() bool {
	return table.PrevPage > 0
}

func (table TableView) HasNext() bool {
	return table.NextPage > 0
}

type column[R any] struct {
	key     string
	label   string
	compare func(a, b R) int
}

type tableLayout[R any] struct {
	columns     []column[R]
	defaultSort string
	defaultDesc bool
}

func NormalizePageSize(size int) int {
	if slices.Contains(PageSizes, size) {
		return size
	}
	return DefaultPageSize
}

func (layout tableLayout[R]) find(key string) *column[R] {
	for i := range layout.columns {
		if layout.columns[i].key == key {
			return &layout.columns[i]
		}
	}
	return nil
}

// build sorts a copy of records and cuts out the requested page.
func (layout tableLayout[R]) build(translator *Translator, records []R, query TableQuery) ([]R, TableView) {
	sortKey, desc := layout.defaultSort, layout.defaultDesc
	if layout.find(query.Sort) != nil {
		sortKey, desc = query.Sort, query.Desc
	}
	sortColumn := layout.find(sortKey)

	sorted := slices.Clone(records)
	if sortColumn != nil {
		compare := sortColumn.compare
		slices.SortStableFunc(sorted, func(a, b R) int {
			if desc {
				return compare(b, a)
			}
			return compare(a, b)
		})
	}

	pageSize := NormalizePageSize(query.PageSize)
	totalRows := len(sorted)
	totalPages := max(1, (totalRows+pageSize-1)/pageSize)
	page := min(max(query.Page, 1), totalPages)

	start := min((page-1)*pageSize, totalRows)
	end := min(start+pageSize, totalRows)

	view := TableView{
		Sort:       sortKey,
		Desc:       desc,
		Page:       page,
		PageSize:   pageSize,
		PageSizes:  PageSizes,
		TotalRows:  totalRows,
		TotalPages: totalPages,
	}
	if page > 1 {
		view.PrevPage = page - 1
	}
	if page < totalPages {
		view.NextPage = page + 1
	}

	if totalRows == 0 {
		view.Info = translator.Text(MsgTableEmpty)
	} else {
		view.Info = translator.Text(MsgTableInfo, strconv.Itoa(start+1), strconv.Itoa(end), strconv.Itoa(totalRows))
	}

	for _, col := range layout.columns {
		view.Columns = append(view.Columns, ColumnView{
			Key:    col.key,
			Label:  translator.Text(col.label),
			Sorted: col.key == sortKey,
			Desc:   col.key == sortKey && desc,
		})
	}

	return sorted[start:end], view
}

func compareOptional[T cmp.Ordered](a, b *T) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return cmp.Compare(*a, *b)
}
