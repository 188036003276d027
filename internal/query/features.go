package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Params is the raw request query-parameter mapping.
type Params map[string]string

// Parameters consumed by the composer itself; never treated as filters.
var reservedParams = map[string]struct{}{
	"page":        {},
	"rowsPerPage": {},
	"sort":        {},
	"sortBy":      {},
	"search":      {},
	"startDate":   {},
	"endDate":     {},
}

// Pagination echoes the page window applied by Paginate.
type Pagination struct {
	Page        int
	RowsPerPage int
}

// Meta is the pagination metadata block returned to list callers.
type Meta struct {
	Page        int   `json:"page"`
	RowsPerPage int   `json:"rowsPerPage"`
	Total       int64 `json:"total"`
	TotalPages  int64 `json:"totalPages"`
}

// Features layers search, filtering, date ranges, sorting and pagination
// onto a not-yet-executed GORM query. Stages are chainable and accumulate
// scopes; nothing touches the database until Apply or ApplyCount builds
// the final pipeline. The count pipeline shares the predicate scopes but
// never the sort or the page window, so pagination cannot affect totals.
type Features struct {
	params Params
	scopes []func(*gorm.DB) *gorm.DB
	order  string

	paginated bool
	offset    int
	limit     int
}

// New creates a Features composer over the given request parameters.
func New(params Params) *Features {
	if params == nil {
		params = Params{}
	}
	return &Features{params: params}
}

// Search OR-combines a case-insensitive substring match across the given
// columns when a "search" parameter is present. No-op otherwise.
func (f *Features) Search(columns ...string) *Features {
	term := strings.TrimSpace(f.params["search"])
	if term == "" || len(columns) == 0 {
		return f
	}
	pattern := "%" + strings.ToLower(term) + "%"
	f.scopes = append(f.scopes, func(db *gorm.DB) *gorm.DB {
		clauses := make([]string, 0, len(columns))
		args := make([]interface{}, 0, len(columns))
		for _, col := range columns {
			clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ?", col))
			args = append(args, pattern)
		}
		return db.Where(strings.Join(clauses, " OR "), args...)
	})
	return f
}

// Filter turns every remaining non-reserved, non-empty parameter into an
// equality constraint on its mapped column. A parameter with no mapping
// must behave like a query on a field no record has: it matches nothing,
// silently, instead of failing the request.
func (f *Features) Filter(columns map[string]string) *Features {
	for param, value := range f.params {
		if _, ok := reservedParams[param]; ok {
			continue
		}
		if value == "" {
			continue
		}
		col, known := columns[param]
		if !known {
			f.scopes = append(f.scopes, func(db *gorm.DB) *gorm.DB {
				return db.Where("1 = 0")
			})
			continue
		}
		v := value
		c := col
		f.scopes = append(f.scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where(fmt.Sprintf("%s = ?", c), v)
		})
	}
	return f
}

// DateRange adds a closed-range constraint on column from the startDate
// and endDate parameters. Either bound may be given alone.
func (f *Features) DateRange(column string) *Features {
	if column == "" {
		column = "created_at"
	}
	if start, ok := parseDate(f.params["startDate"]); ok {
		c := column
		f.scopes = append(f.scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where(fmt.Sprintf("%s >= ?", c), start)
		})
	}
	if end, ok := parseDate(f.params["endDate"]); ok {
		c := column
		f.scopes = append(f.scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where(fmt.Sprintf("%s <= ?", c), end)
		})
	}
	return f
}

// Sort orders by the mapped sortBy column, ascending when sort=asc and
// descending otherwise. Without a usable sortBy it defaults to newest
// first.
func (f *Features) Sort(columns map[string]string) *Features {
	col := "created_at"
	dir := "DESC"
	if by := f.params["sortBy"]; by != "" {
		if mapped, ok := columns[by]; ok {
			col = mapped
			if f.params["sort"] == "asc" {
				dir = "ASC"
			}
		}
	}
	f.order = col + " " + dir
	return f
}

// Paginate reads page (default 1) and rowsPerPage (default 10, capped at
// 100) and records the skip/limit window. The window applies only to the
// fetch pipeline; ApplyCount ignores it.
func (f *Features) Paginate() Pagination {
	page := atoiDefault(f.params["page"], 1)
	if page < 1 {
		page = 1
	}
	rows := atoiDefault(f.params["rowsPerPage"], 10)
	if rows < 1 {
		rows = 10
	}
	if rows > 100 {
		rows = 100
	}
	f.paginated = true
	f.offset = (page - 1) * rows
	f.limit = rows
	return Pagination{Page: page, RowsPerPage: rows}
}

// Apply builds the fetch pipeline: predicates, then sort, then pagination.
func (f *Features) Apply(db *gorm.DB) *gorm.DB {
	for _, scope := range f.scopes {
		db = scope(db)
	}
	if f.order != "" {
		db = db.Order(f.order)
	}
	if f.paginated {
		db = db.Offset(f.offset).Limit(f.limit)
	}
	return db
}

// ApplyCount builds the sibling count pipeline from the same predicates.
func (f *Features) ApplyCount(db *gorm.DB) *gorm.DB {
	for _, scope := range f.scopes {
		db = scope(db)
	}
	return db
}

// PaginationMeta computes the metadata block for a paginated listing.
func PaginationMeta(page, rowsPerPage int, total int64) Meta {
	var pages int64
	if rowsPerPage > 0 {
		pages = (total + int64(rowsPerPage) - 1) / int64(rowsPerPage)
	}
	return Meta{
		Page:        page,
		RowsPerPage: rowsPerPage,
		Total:       total,
		TotalPages:  pages,
	}
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
