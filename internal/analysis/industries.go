package analysis

import (
	"strings"

	"github.com/seenimoa/findigest/pkg/models"
)

// industryEntry pairs an industry label with its trigger keywords.
// Kept as an ordered slice so extraction output is deterministic.
type industryEntry struct {
	Name     string
	Keywords []string
}

var industryKeywords = []industryEntry{
	{"新能源", []string{"新能源", "光伏", "风电", "储能", "电池", "电动车", "新能源汽车"}},
	{"半导体", []string{"芯片", "半导体", "集成电路", "晶圆", "封测", "设计"}},
	{"医药", []string{"医药", "生物", "疫苗", "创新药", "医疗器械", "医院"}},
	{"消费", []string{"消费", "白酒", "食品", "饮料", "零售", "电商"}},
	{"科技", []string{"科技", "互联网", "软件", "人工智能", "云计算", "5G"}},
	{"银行", []string{"银行", "金融", "保险", "券商"}},
	{"地产", []string{"房地产", "地产", "建筑", "建材"}},
	{"化工", []string{"化工", "化学", "材料", "塑料"}},
	{"制造", []string{"制造", "工业", "机械", "装备"}},
	{"军工", []string{"军工", "国防", "航天", "航空"}},
	{"农业", []string{"农业", "粮食", "种植", "养殖"}},
	{"基建", []string{"基建", "工程", "建筑", "水泥"}},
}

// linkageEntry maps a global-event trigger phrase to its domestic impact.
type linkageEntry struct {
	Event      string
	Industries []string
	Logic      string
	Domestic   []string
}

var globalLinkages = []linkageEntry{
	{"美联储", []string{"银行", "房地产", "消费", "科技"}, "利率政策影响资金成本和投资偏好", []string{"银行股", "地产股", "消费股", "科技股"}},
	{"美股科技", []string{"科技", "半导体", "新能源"}, "美股科技股表现影响国内科技板块情绪", []string{"中概股", "半导体", "新能源车"}},
	{"原油价格", []string{"新能源", "化工", "消费"}, "油价波动影响新能源替代需求和化工成本", []string{"新能源车", "光伏", "化工股"}},
	{"欧央行", []string{"银行", "出口", "消费"}, "欧元区货币政策影响全球贸易和消费", []string{"银行股", "出口股", "消费股"}},
	{"欧洲能源", []string{"新能源", "化工", "制造"}, "欧洲能源政策影响全球供应链和新能源需求", []string{"光伏", "风电", "化工股"}},
	{"日央行", []string{"科技", "制造", "消费"}, "日元政策影响亚洲供应链和消费市场", []string{"科技股", "制造股", "消费股"}},
	{"韩国半导体", []string{"半导体", "科技", "消费电子"}, "韩国半导体产业影响全球供应链", []string{"半导体", "消费电子", "科技股"}},
	{"黄金", []string{"银行", "消费", "科技"}, "避险情绪影响资金流向", []string{"银行股", "消费股", "科技股"}},
	{"铜价", []string{"新能源", "制造", "基建"}, "铜价反映全球经济和新能源需求", []string{"新能源", "制造股", "基建股"}},
	{"中美关系", []string{"科技", "半导体", "新能源", "消费"}, "贸易政策影响供应链和市场需求", []string{"科技股", "半导体", "新能源", "消费股"}},
	{"俄乌冲突", []string{"新能源", "化工", "农业", "军工"}, "地缘冲突影响能源供应和粮食安全", []string{"新能源", "化工股", "农业股", "军工股"}},
}

// DetectGlobalEvents scans the corpus for known global-event trigger
// phrases and returns the matched events plus the union of industries
// they touch, in catalogue order.
func DetectGlobalEvents(text string) (events []models.GlobalEvent, industries []string) {
	seen := make(map[string]bool)
	for _, l := range globalLinkages {
		if !strings.Contains(text, l.Event) {
			continue
		}
		events = append(events, models.GlobalEvent{
			Event:      l.Event,
			Logic:      l.Logic,
			Industries: l.Industries,
			Domestic:   l.Domestic,
		})
		for _, ind := range l.Industries {
			if !seen[ind] {
				seen[ind] = true
				industries = append(industries, ind)
			}
		}
	}
	return events, industries
}

// ExtractIndustries returns the industries mentioned in the corpus,
// combining direct keyword hits with global-event linkage, deduplicated
// in first-seen order.
func ExtractIndustries(text string) ([]string, []models.GlobalEvent) {
	seen := make(map[string]bool)
	var found []string

	for _, entry := range industryKeywords {
		for _, kw := range entry.Keywords {
			if strings.Contains(text, kw) {
				if !seen[entry.Name] {
					seen[entry.Name] = true
					found = append(found, entry.Name)
				}
				break
			}
		}
	}

	events, linked := DetectGlobalEvents(text)
	for _, ind := range linked {
		if !seen[ind] {
			seen[ind] = true
			found = append(found, ind)
		}
	}

	return found, events
}
