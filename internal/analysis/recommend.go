package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/seenimoa/findigest/internal/llm"
	"github.com/seenimoa/findigest/pkg/models"
)

const recommendSystemPrompt = "你是一个专业的股票分析师，请基于行业分析推荐相关股票。"

const recommendPromptTemplate = `基于以下%s行业的新闻分析，推荐3-5只最相关的A股股票，并提供完整的投资分析：

行业分析：%s

请按照以下格式返回JSON：
{
    "stocks": [
        {
            "code": "股票代码",
            "name": "股票名称",
            "reason": "推荐理由（基于行业分析）",
            "risk": "风险等级（低/中/高）",
            "impact": "影响程度（高/中/低）",
            "trading": {
                "entry_price": "建议买入价格区间",
                "stop_loss": "止损位",
                "target_price": "目标价格",
                "holding_period": "建议持有周期"
            }
        }
    ]
}

要求：
1. 股票必须与行业分析直接相关
2. 买卖点建议要具体可操作
3. 只返回JSON格式，不要其他文字`

// fallbackPicks lists the per-industry templates used when the model is
// unavailable or returns unparseable output.
var fallbackPicks = map[string][]models.StockPick{
	"新能源": {
		{Code: "300750", Name: "宁德时代", Reason: "动力电池龙头，技术领先", Risk: "中", Impact: "高"},
		{Code: "002594", Name: "比亚迪", Reason: "新能源汽车全产业链布局", Risk: "中", Impact: "高"},
		{Code: "300274", Name: "阳光电源", Reason: "光伏逆变器龙头", Risk: "中", Impact: "中"},
	},
	"半导体": {
		{Code: "688981", Name: "中芯国际", Reason: "国内晶圆代工龙头", Risk: "高", Impact: "高"},
		{Code: "002049", Name: "紫光国微", Reason: "安全芯片设计领先", Risk: "中", Impact: "中"},
		{Code: "688536", Name: "思瑞浦", Reason: "模拟芯片设计", Risk: "高", Impact: "中"},
	},
	"医药": {
		{Code: "300015", Name: "爱尔眼科", Reason: "眼科医疗服务龙头", Risk: "低", Impact: "中"},
		{Code: "600276", Name: "恒瑞医药", Reason: "创新药研发领先", Risk: "中", Impact: "高"},
		{Code: "300760", Name: "迈瑞医疗", Reason: "医疗器械龙头", Risk: "低", Impact: "中"},
	},
	"消费": {
		{Code: "000858", Name: "五粮液", Reason: "白酒龙头，品牌价值高", Risk: "低", Impact: "中"},
		{Code: "600519", Name: "贵州茅台", Reason: "白酒第一品牌", Risk: "低", Impact: "中"},
		{Code: "002304", Name: "洋河股份", Reason: "白酒行业领先", Risk: "中", Impact: "中"},
	},
	"科技": {
		{Code: "000002", Name: "万科A", Reason: "房地产龙头", Risk: "高", Impact: "中"},
		{Code: "000001", Name: "平安银行", Reason: "银行股龙头", Risk: "低", Impact: "中"},
		{Code: "600036", Name: "招商银行", Reason: "零售银行领先", Risk: "低", Impact: "中"},
	},
}

// Recommender produces per-industry stock pick sections.
type Recommender struct {
	provider llm.Provider
}

// NewRecommender creates a recommender backed by the given provider.
// A nil provider always yields the fallback templates.
func NewRecommender(provider llm.Provider) *Recommender {
	return &Recommender{provider: provider}
}

// PicksForIndustry asks the model for picks grounded in the summary.
// Any failure, including malformed JSON, falls back to the static
// template for the industry (which may be empty).
func (r *Recommender) PicksForIndustry(ctx context.Context, industry, summary string) []models.StockPick {
	if r.provider == nil {
		return FallbackPicks(industry)
	}

	prompt := fmt.Sprintf(recommendPromptTemplate, industry, summary)
	resp, err := r.provider.Chat(ctx, []llm.Message{
		llm.SystemMessage(recommendSystemPrompt),
		llm.UserMessage(prompt),
	}, &llm.ChatOptions{Temperature: 0.3})
	if err != nil {
		log.Printf("analysis: picks for %s failed, using fallback: %v", industry, err)
		return FallbackPicks(industry)
	}

	picks, err := parsePicks(resp.Content)
	if err != nil {
		log.Printf("analysis: picks for %s unparseable, using fallback: %v", industry, err)
		return FallbackPicks(industry)
	}
	return picks
}

// FallbackPicks returns the static template picks for an industry.
func FallbackPicks(industry string) []models.StockPick {
	return fallbackPicks[industry]
}

// parsePicks decodes the model's JSON reply, tolerating markdown fences.
func parsePicks(text string) ([]models.StockPick, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var payload struct {
		Stocks []models.StockPick `json:"stocks"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, err
	}
	if len(payload.Stocks) == 0 {
		return nil, fmt.Errorf("no stocks in reply")
	}
	return payload.Stocks, nil
}
