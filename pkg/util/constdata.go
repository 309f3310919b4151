package util

// PresetQueries 页面上的快捷查询
var PresetQueries = []string{
	"Show me AAPL stock prices for the last 3 months",
	"Calculate moving averages for MSFT",
	"Generate a chart for TSLA stock with Bollinger Bands",
}
