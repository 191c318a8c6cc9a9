// Package analysis turns the collected news corpus into the analytic
// sections of the digest: the synthesized market summary, industry and
// global-event extraction, per-industry stock picks, and the canned
// sentiment and timing snapshots.
package analysis

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/seenimoa/findigest/internal/llm"
	"github.com/seenimoa/findigest/pkg/models"
)

const summarySystemPrompt = `你是一名专业的财经新闻分析师，请根据以下新闻内容和全球市场联动分析，按照以下步骤完成任务：

**分析步骤：**
1. 提取新闻中涉及的主要行业和主题，找出近1天涨幅最高的3个行业或主题，以及近3天涨幅较高且此前2周表现平淡的3个行业/主题。
2. 针对每个热点，输出：
   - 催化剂：分析近期上涨的可能原因（政策、数据、事件、情绪等）
   - 复盘：梳理过去3个月该行业/主题的核心逻辑、关键动态与阶段性走势
   - 展望：判断该热点是短期炒作还是有持续行情潜力

**全球联动分析：**
3. 分析全球事件对国内市场的联动影响：
   - 资金流向影响
   - 情绪传导机制
   - 供应链影响
   - 政策传导效应

**投资建议：**
4. 基于以上分析，提供投资建议：
   - 重点关注行业和板块
   - 风险提示和注意事项
   - 投资策略建议

5. 将以上分析整合为一篇1500字以内的财经热点摘要，包含：
   - 市场热点分析
   - 全球联动影响
   - 投资建议和风险提示

注意：分析要结合国内外市场联动逻辑，避免无根据的推荐。`

// fallbackMaxChars bounds the corpus excerpt used when the LLM is down.
const fallbackMaxChars = 1000

// Summarizer produces the synthesized market analysis.
type Summarizer struct {
	provider llm.Provider
}

// NewSummarizer creates a summarizer backed by the given provider.
// A nil provider always yields the fallback summary.
func NewSummarizer(provider llm.Provider) *Summarizer {
	return &Summarizer{provider: provider}
}

// Summarize asks the model for a market summary of the corpus. On any
// failure it degrades to a deterministic truncated-corpus digest and
// reports fallback=true; the run never fails here.
func (s *Summarizer) Summarize(ctx context.Context, corpusText string, events []models.GlobalEvent) (summary string, fallback bool) {
	if s.provider == nil {
		return fallbackSummary(corpusText), true
	}

	user := "新闻内容：" + corpusText
	if len(events) > 0 {
		var b strings.Builder
		b.WriteString("\n\n全球联动事件分析：\n")
		for _, e := range events {
			fmt.Fprintf(&b, "- %s: %s -> 影响%s -> 国内映射%s\n",
				e.Event, e.Logic, strings.Join(e.Industries, "、"), strings.Join(e.Domestic, "、"))
		}
		user += b.String()
	}

	resp, err := s.provider.Chat(ctx, []llm.Message{
		llm.SystemMessage(summarySystemPrompt),
		llm.UserMessage(user),
	}, nil)
	if err != nil {
		log.Printf("analysis: summarize failed, using fallback: %v", err)
		return fallbackSummary(corpusText), true
	}
	return strings.TrimSpace(resp.Content), false
}

// fallbackSummary renders the canned summary used when the model is
// unavailable: a truncated excerpt of the corpus itself.
func fallbackSummary(corpusText string) string {
	excerpt := corpusText
	if runes := []rune(excerpt); len(runes) > fallbackMaxChars {
		excerpt = string(runes[:fallbackMaxChars])
	}
	return fmt.Sprintf(`📊 今日财经新闻摘要

由于 AI 分析服务暂时不可用，以下是今日收集的主要财经新闻：

%s...

请关注以上新闻对市场的影响。`, excerpt)
}
