package analysis

// MarketSentiment returns the canned sentiment snapshot shown near the
// top of the digest. Ordered key/value pairs; the values are static
// editorial copy, not derived from data.
func MarketSentiment() [][2]string {
	return [][2]string{
		{"上证指数", "📈 上涨趋势"},
		{"深证成指", "📊 震荡整理"},
		{"创业板指", "📈 强势反弹"},
		{"北向资金", "💰 净流入"},
		{"市场情绪", "😊 偏乐观"},
		{"成交量", "📊 温和放量"},
		{"板块轮动", "🔄 科技→消费→新能源"},
		{"资金流向", "💸 主力资金净流入"},
		{"技术形态", "📈 突破关键阻力位"},
	}
}

// MarketTiming returns the canned position-building guidance section.
func MarketTiming() [][2]string {
	return [][2]string{
		{"整体时机", "🟡 中性偏乐观"},
		{"建仓建议", "分批建仓，控制仓位"},
		{"风险提示", "关注外部风险事件"},
		{"重点关注", "业绩确定性强的龙头股"},
		{"操作策略", "逢低买入，不追高"},
	}
}
