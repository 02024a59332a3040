package utils

// Pagination 分页请求参数
// 缺省时 default tag 补为第一页 10 条；显式传入 <1 视为非法，由 service 校验
type Pagination struct {
	Page  int `json:"page" form:"page,default=1"`
	Limit int `json:"limit" form:"limit,default=10"`
}

// PageResult 分页响应结果
type PageResult struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// Valid 分页参数是否合法
func (p *Pagination) Valid() bool {
	return p.Page >= 1 && p.Limit >= 1
}

// Offset 计算分页偏移量
func (p *Pagination) Offset() int {
	limit := p.Limit
	if limit > 100 {
		limit = 100
	}
	return (p.Page - 1) * limit
}

// Size 实际每页条数（上限 100）
func (p *Pagination) Size() int {
	if p.Limit > 100 {
		return 100
	}
	return p.Limit
}
