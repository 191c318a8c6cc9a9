package collector

import "github.com/seenimoa/findigest/pkg/models"

// DefaultCategories lists the configured feed sources grouped by report
// section. Order here is the order sections appear in the digest.
var DefaultCategories = []models.FeedCategory{
	{
		Title: "💲 华尔街见闻",
		Sources: []models.FeedSource{
			{Name: "华尔街见闻", URL: "https://dedicated.wallstreetcn.com/rss.xml"},
		},
	},
	{
		Title: "💻 36氪",
		Sources: []models.FeedSource{
			{Name: "36氪", URL: "https://36kr.com/feed"},
		},
	},
	{
		Title: "🇨🇳 中国经济",
		Sources: []models.FeedSource{
			{Name: "香港經濟日報", URL: "https://www.hket.com/rss/china"},
			{Name: "东方财富", URL: "http://rss.eastmoney.com/rss_partener.xml"},
			{Name: "百度股票焦点", URL: "http://news.baidu.com/n?cmd=1&class=stock&tn=rss&sub=0"},
			{Name: "中新网", URL: "https://www.chinanews.com.cn/rss/finance.xml"},
			{Name: "国家统计局-最新发布", URL: "https://www.stats.gov.cn/sj/zxfb/rss.xml"},
		},
	},
	{
		Title: "🇺🇸 美国经济",
		Sources: []models.FeedSource{
			{Name: "华尔街日报 - 经济", URL: "https://feeds.content.dowjones.io/public/rss/WSJcomUSBusiness"},
			{Name: "华尔街日报 - 市场", URL: "https://feeds.content.dowjones.io/public/rss/RSSMarketsMain"},
			{Name: "MarketWatch美股", URL: "https://www.marketwatch.com/rss/topstories"},
			{Name: "ZeroHedge华尔街新闻", URL: "https://feeds.feedburner.com/zerohedge/feed"},
			{Name: "ETF Trends", URL: "https://www.etftrends.com/feed/"},
		},
	},
	{
		Title: "🌍 世界经济",
		Sources: []models.FeedSource{
			{Name: "华尔街日报 - 经济", URL: "https://feeds.content.dowjones.io/public/rss/socialeconomyfeed"},
			{Name: "BBC全球经济", URL: "http://feeds.bbci.co.uk/news/business/rss.xml"},
		},
	},
}
