package controllers

import (
	"github.com/snapgram/api-go/social"
)

type StandardResponse struct {
	Success    bool            `json:"success"`
	Data       interface{}     `json:"data,omitempty"`
	Meta       interface{}     `json:"meta,omitempty"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
	Message    string          `json:"message,omitempty"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
}

func paginationMeta(p social.Pagination, total int64) *PaginationMeta {
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return &PaginationMeta{
		CurrentPage: p.Page,
		PageSize:    p.Limit,
		TotalItems:  total,
		TotalPages:  pages,
	}
}

// PageQuery is the shared pagination binding for list endpoints.
type PageQuery struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=20"`
}

func (q PageQuery) Pagination() social.Pagination {
	return social.Pagination{Page: q.Page, Limit: q.Limit}
}
