package dto

// Response 统一返回结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// ListResponse 列表返回结构
type ListResponse struct {
	Success bool        `json:"success"`
	Count   int         `json:"count"`
	Total   *int64      `json:"total,omitempty"`
	Data    interface{} `json:"data"`
}

// ErrorResponse 失败返回结构，Field 为校验失败的字段
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
