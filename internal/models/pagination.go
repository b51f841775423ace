package models

// Page sizes used by the customer list views
const (
	TablePageSize = 10
	GridPageSize  = 12
	MaxPageSize   = 1000
)

// CustomerPage is one page of customers as returned by the customer API
type CustomerPage struct {
	Content       []*CustomerRecord `json:"content"`
	TotalPages    int               `json:"totalPages"`
	TotalElements int64             `json:"totalElements"`
	Number        int               `json:"number"`
	Size          int               `json:"size"`
}

// CustomerListParams holds the paging options sent to the customer API
type CustomerListParams struct {
	Page       int
	PageSize   int
	Sort       string
	SearchTerm string
}

// TotalPages returns ceil(totalCount / pageSize)
func TotalPages(totalCount int64, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		totalPages++
	}
	return totalPages
}

// ClampPage pulls a page index back into [0, totalPages-1]
func ClampPage(page, totalPages int) int {
	if page < 0 || totalPages == 0 {
		return 0
	}
	if page >= totalPages {
		return totalPages - 1
	}
	return page
}

// ValidateAndSetDefaults validates API paging parameters and sets defaults
func ValidateAndSetDefaults(params *CustomerListParams) {
	if params.Page < 0 {
		params.Page = 0
	}
	if params.PageSize < 1 {
		params.PageSize = TablePageSize
	}
	if params.PageSize > MaxPageSize {
		params.PageSize = MaxPageSize
	}
	if params.Sort == "" {
		params.Sort = "firstName,asc"
	}
}
