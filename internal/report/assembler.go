// Package report renders the final digest text from the assembled
// sections of one run. Pure string assembly; every section degrades to
// an empty string when its data is missing.
package report

import (
	"fmt"
	"strings"

	"github.com/seenimoa/findigest/pkg/models"
)

var riskEmoji = map[string]string{"低": "🟢", "中": "🟡", "高": "🔴"}
var impactEmoji = map[string]string{"高": "🔥", "中": "⚡", "低": "💡"}

// Title returns the push notification title for a run date.
func Title(date string) string {
	return fmt.Sprintf("📌 %s 财经新闻摘要", date)
}

// Assemble renders the complete digest body.
func Assemble(r *models.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📅 **%s 财经新闻摘要**\n\n", r.Date)
	b.WriteString(indicesSection(r.Indices))
	b.WriteString(pairSection("## 📊 市场情绪概览", r.Sentiment))
	b.WriteString(pairSection("## ⏰ 市场时机分析", r.Timing))
	b.WriteString(globalSection(r.Globals))

	b.WriteString("✍️ **今日分析总结：**\n")
	b.WriteString(r.Summary)
	b.WriteString("\n\n")

	b.WriteString(picksSection(r.Picks, r.PickOrder))
	b.WriteString("---\n\n")
	b.WriteString(newsSection(r.News))

	return b.String()
}

// indicesSection renders the market index readings. Failed lookups get
// a placeholder so the section layout stays stable.
func indicesSection(indices []models.IndexQuote) string {
	if len(indices) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("## 📈 大盘指数\n")
	for _, idx := range indices {
		if !idx.OK {
			fmt.Fprintf(&b, "- **%s**: 数据暂缺\n", idx.Name)
			continue
		}
		arrow := "➡️"
		switch {
		case idx.ChangePct > 0:
			arrow = "📈"
		case idx.ChangePct < 0:
			arrow = "📉"
		}
		fmt.Fprintf(&b, "- **%s**: %.2f (%+.2f%% %s)\n", idx.Name, idx.Price, idx.ChangePct, arrow)
	}
	b.WriteString("\n")
	return b.String()
}

// pairSection renders an ordered key/value list under a header.
func pairSection(header string, pairs [][2]string) string {
	if len(pairs) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(header + "\n")
	for _, p := range pairs {
		fmt.Fprintf(&b, "- **%s**: %s\n", p[0], p[1])
	}
	b.WriteString("\n")
	return b.String()
}

// globalSection renders detected global-event linkage.
func globalSection(events []models.GlobalEvent) string {
	if len(events) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("## 🌍 全球市场联动分析\n")
	for _, e := range events {
		fmt.Fprintf(&b, "- **%s**\n", e.Event)
		fmt.Fprintf(&b, "  - 影响逻辑: %s\n", e.Logic)
		fmt.Fprintf(&b, "  - 影响行业: %s\n", strings.Join(e.Industries, ", "))
		fmt.Fprintf(&b, "  - 国内映射: %s\n\n", strings.Join(e.Domestic, ", "))
	}
	b.WriteString("💡 **联动提示**: 全球事件通过资金流向、情绪传导、供应链影响等方式影响A股市场\n\n")
	return b.String()
}

// picksSection renders per-industry stock picks plus the standing
// strategy guidance. Empty when no industry produced picks.
func picksSection(picks map[string][]models.StockPick, order []string) string {
	var sections strings.Builder
	for _, industry := range order {
		stocks := picks[industry]
		if len(stocks) == 0 {
			continue
		}
		fmt.Fprintf(&sections, "### 📈 %s板块\n", industry)
		for _, s := range stocks {
			re := riskEmoji[s.Risk]
			if re == "" {
				re = "⚪"
			}
			ie := impactEmoji[s.Impact]
			if ie == "" {
				ie = "💡"
			}
			fmt.Fprintf(&sections, "- **%s %s** %s %s\n", s.Code, s.Name, re, ie)
			fmt.Fprintf(&sections, "  - 推荐理由: %s\n", s.Reason)
			fmt.Fprintf(&sections, "  - 风险等级: %s\n", s.Risk)
			if s.Impact != "" {
				fmt.Fprintf(&sections, "  - 影响程度: %s\n", s.Impact)
			}
			if t := s.Trading; t != nil {
				fmt.Fprintf(&sections, "  - **买入**: %s\n", orNA(t.EntryPrice))
				fmt.Fprintf(&sections, "  - **止损**: %s\n", orNA(t.StopLoss))
				fmt.Fprintf(&sections, "  - **目标**: %s\n", orNA(t.TargetPrice))
				fmt.Fprintf(&sections, "  - **持有**: %s\n", orNA(t.HoldingPeriod))
			}
			sections.WriteString("\n")
		}
	}
	if sections.Len() == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("## 🎯 A股投资机会\n\n")
	b.WriteString(sections.String())
	b.WriteString("⚠️ **投资提醒**: 以上推荐基于今日新闻动态生成，仅供参考，投资有风险，入市需谨慎！\n\n")
	b.WriteString(strategySection())
	return b.String()
}

func strategySection() string {
	return `## 💡 投资策略建议

### 📈 建仓策略
- **分批建仓**: 建议分3-5次逐步建仓，降低单次风险
- **仓位控制**: 单只股票不超过总仓位的10-15%
- **时机把握**: 关注回调机会，避免追高

### 🛡️ 风险控制
- **止损设置**: 严格执行止损，一般不超过-8%
- **止盈策略**: 分批止盈，锁定部分利润
- **分散投资**: 避免过度集中在单一行业

### 📊 持仓管理
- **定期检视**: 每周评估持仓表现
- **动态调整**: 根据市场变化调整仓位
- **长期思维**: 优质股票可长期持有

`
}

// newsSection renders the per-category link lists in catalogue order.
func newsSection(corpus *models.Corpus) string {
	if corpus == nil {
		return ""
	}
	var b strings.Builder
	for _, category := range corpus.CategoryOrder {
		content := corpus.Sections[category]
		if strings.TrimSpace(content) == "" {
			continue
		}
		fmt.Fprintf(&b, "## %s\n%s\n\n", category, content)
	}
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
