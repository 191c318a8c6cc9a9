package report

import (
	"strings"
	"testing"

	"github.com/seenimoa/findigest/pkg/models"
)

func sampleReport() *models.Report {
	return &models.Report{
		Date: "2026-08-28",
		Indices: []models.IndexQuote{
			{Name: "上证指数", Symbol: "000001", Price: 3456.78, ChangePct: 0.56, OK: true},
			{Name: "深证成指", Symbol: "399001", Price: 11234.56, ChangePct: -0.21, OK: true},
			{Name: "创业板指", Symbol: "399006", OK: false},
		},
		Sentiment: [][2]string{{"市场情绪", "😊 偏乐观"}},
		Timing:    [][2]string{{"整体时机", "🟡 中性偏乐观"}},
		Globals: []models.GlobalEvent{
			{Event: "美联储", Logic: "利率政策影响资金成本和投资偏好", Industries: []string{"银行"}, Domestic: []string{"银行股"}},
		},
		Summary: "今日热点集中在新能源板块。",
		Picks: map[string][]models.StockPick{
			"新能源": {
				{Code: "300274", Name: "阳光电源", Reason: "光伏逆变器龙头", Risk: "中", Impact: "中",
					Trading: &models.PickTrading{EntryPrice: "80-85元", StopLoss: "75元", TargetPrice: "100元", HoldingPeriod: "3个月"}},
			},
		},
		PickOrder: []string{"新能源"},
		News: &models.Corpus{
			Sections: map[string]string{
				"🇨🇳 中国经济": "### 中新网\n- [新闻标题](https://example.com/1)\n\n",
				"🌍 世界经济": "",
			},
			CategoryOrder: []string{"🇨🇳 中国经济", "🌍 世界经济"},
			ArticleCount:  1,
		},
	}
}

func TestAssemble(t *testing.T) {
	out := Assemble(sampleReport())

	for _, want := range []string{
		"📅 **2026-08-28 财经新闻摘要**",
		"## 📈 大盘指数",
		"- **上证指数**: 3456.78 (+0.56% 📈)",
		"- **深证成指**: 11234.56 (-0.21% 📉)",
		"- **创业板指**: 数据暂缺",
		"## 📊 市场情绪概览",
		"- **市场情绪**: 😊 偏乐观",
		"## ⏰ 市场时机分析",
		"## 🌍 全球市场联动分析",
		"- **美联储**",
		"  - 国内映射: 银行股",
		"✍️ **今日分析总结：**\n今日热点集中在新能源板块。",
		"## 🎯 A股投资机会",
		"### 📈 新能源板块",
		"- **300274 阳光电源** 🟡 ⚡",
		"  - **买入**: 80-85元",
		"⚠️ **投资提醒**",
		"## 💡 投资策略建议",
		"## 🇨🇳 中国经济",
		"- [新闻标题](https://example.com/1)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestAssembleSkipsEmptySections(t *testing.T) {
	r := sampleReport()
	r.Globals = nil
	r.Picks = nil
	r.PickOrder = nil

	out := Assemble(r)
	if strings.Contains(out, "全球市场联动分析") {
		t.Error("empty global section should be omitted")
	}
	if strings.Contains(out, "A股投资机会") || strings.Contains(out, "投资策略建议") {
		t.Error("empty picks section should omit strategy guidance too")
	}
	// The empty 世界经济 category is skipped.
	if strings.Contains(out, "世界经济") {
		t.Error("empty news category should be omitted")
	}
}

func TestAssembleOrdersSections(t *testing.T) {
	out := Assemble(sampleReport())

	indices := strings.Index(out, "大盘指数")
	sentiment := strings.Index(out, "市场情绪概览")
	summary := strings.Index(out, "今日分析总结")
	picks := strings.Index(out, "A股投资机会")
	news := strings.Index(out, "中国经济")

	if !(indices < sentiment && sentiment < summary && summary < picks && picks < news) {
		t.Errorf("section order wrong: indices=%d sentiment=%d summary=%d picks=%d news=%d",
			indices, sentiment, summary, picks, news)
	}
}

func TestTitle(t *testing.T) {
	if got := Title("2026-08-28"); got != "📌 2026-08-28 财经新闻摘要" {
		t.Errorf("Title = %q", got)
	}
}

func TestPicksSectionUnknownEmoji(t *testing.T) {
	out := picksSection(map[string][]models.StockPick{
		"测试": {{Code: "000001", Name: "平安银行", Reason: "r", Risk: "未知", Impact: "未知"}},
	}, []string{"测试"})
	if !strings.Contains(out, "⚪") || !strings.Contains(out, "💡") {
		t.Errorf("unknown risk/impact should get default emoji:\n%s", out)
	}
}
