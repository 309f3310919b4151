package models

// QueryRequest 分析请求
type QueryRequest struct {
	Input string `json:"input" form:"input"` // 用户输入的自由文本
}

// RespValue 通用响应结构
type RespValue struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Err  string      `json:"err,omitempty"`
	Data interface{} `json:"data"`
}

type RespInfo struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// ErrorBody 与后端 agent 的错误结构保持一致，前端只读取 detail
type ErrorBody struct {
	Detail string `json:"detail"`
}
