package common

// Meta 分页信息
type Meta struct {
	Page     int64 `json:"page"`
	PageSize int64 `json:"page_size"`
	Total    int64 `json:"total"`
}

// BaseParams 通用分页查询参数
type BaseParams struct {
	PageSize int64 `json:"page_size" form:"page_size" query:"page_size"`
	Page     int64 `json:"page" form:"page" query:"page"`
}

// Normalize 填充默认分页参数，并限制单页上限
func (p *BaseParams) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = 20
	}
	if p.PageSize > 200 {
		p.PageSize = 200
	}
}

// Offset 返回当前页的偏移量
func (p BaseParams) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return int((p.Page - 1) * p.PageSize)
}
