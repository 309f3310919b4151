package code

// 业务响应码，和 HTTP 状态码保持一致便于前端判断
const (
	Success       = 200
	ParamErr      = 400
	Conflict      = 409
	HTTPStatusErr = 500
	AgentErr      = 502
)

const (
	MsgSuccess   = "success"
	MsgParamErr  = "query must not be empty"
	MsgInFlight  = "a query is already in progress"
	MsgNoSummary = "No summary returned."
)
