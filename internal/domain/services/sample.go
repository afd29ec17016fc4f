package services

import (
	"strings"
	"time"

	"github.com/messixieziyi/life-story/internal/domain/entities"
)

// SampleDraft is a demo draft. RelatedTo lists positions of earlier drafts in
// the same batch; they become ids once those drafts are persisted.
type SampleDraft struct {
	Draft     entities.Draft
	RelatedTo []int
}

// GenerateSample returns the demo life story, oldest first. Content is fixed;
// the last two entries are anchored to the calendar days before now.
func GenerateSample(now time.Time) []SampleDraft {
	loc := now.Location()
	on := func(year int, month time.Month, day, hour, minute int) time.Time {
		return time.Date(year, month, day, hour, minute, 0, 0, loc)
	}
	daysAgo := func(days, hour, minute int) time.Time {
		return time.Date(now.Year(), now.Month(), now.Day()-days, hour, minute, 0, 0, loc)
	}
	emotions := func(es ...entities.Emotion) []string {
		out := make([]string, len(es))
		for i, e := range es {
			out[i] = string(e)
		}
		return out
	}
	place := func(name string) *entities.LocationInput {
		return &entities.LocationInput{Name: name}
	}
	placeAt := func(name string, lat, lng float64) *entities.LocationInput {
		return &entities.LocationInput{Name: name, Lat: &lat, Lng: &lng}
	}
	people := func(names ...string) string {
		return strings.Join(names, ",")
	}

	return []SampleDraft{
		{Draft: entities.Draft{
			Title:        "第一次参加编程竞赛",
			Description:  "参加了全国青少年信息学奥林匹克竞赛，虽然只获得了省级三等奖，但这是我第一次参加正式比赛，很紧张也很兴奋。",
			Date:         on(2015, time.November, 15, 0, 0),
			Importance:   string(entities.ImportanceNormal),
			Emotions:     emotions(entities.EmotionAnxious, entities.EmotionExcited, entities.EmotionHopeful),
			EmotionNote:  "第一次参加正式比赛，既紧张又兴奋",
			Location:     place("省实验中学"),
			Participants: people("同学", "老师"),
			Tags:         []string{"学习", "竞赛", "编程"},
			Category:     "教育",
			Type:         string(entities.EventTypeEvent),
		}},
		{Draft: entities.Draft{
			Title:        "高中毕业",
			Description:  "完成了高中学业，即将进入大学。和同学们一起拍了毕业照，有些不舍，但也对未来充满期待。",
			Date:         on(2016, time.June, 20, 0, 0),
			Importance:   string(entities.ImportanceMajor),
			Emotions:     emotions(entities.EmotionExcited, entities.EmotionHopeful, entities.EmotionSad),
			EmotionNote:  "告别高中生活，既有不舍也有期待",
			Location:     place("XX高中"),
			Participants: people("同学", "老师", "家人"),
			Tags:         []string{"教育", "毕业", "里程碑"},
			Category:     "教育",
			Type:         string(entities.EventTypeAchievement),
		}},
		{Draft: entities.Draft{
			Title:        "第一次离家住宿舍",
			Description:  "大学开学，第一次离开家，住进大学宿舍。有点想家，但也对独立生活感到兴奋。",
			Date:         on(2017, time.September, 1, 0, 0),
			Importance:   string(entities.ImportanceNormal),
			Emotions:     emotions(entities.EmotionExcited, entities.EmotionLonely, entities.EmotionHopeful),
			EmotionNote:  "第一次独立生活，既兴奋又有点想家",
			Location:     place("XX大学宿舍"),
			Participants: people("室友"),
			Tags:         []string{"生活", "独立", "大学"},
			Category:     "生活",
			Type:         string(entities.EventTypeEvent),
		}},
		{Draft: entities.Draft{
			Title:        "和好朋友一起看日出",
			Description:  "凌晨4点起床，和最好的朋友一起爬山看日出。虽然很累，但是看到了美丽的日出，心情特别好。",
			Date:         on(2018, time.April, 10, 5, 30),
			Importance:   string(entities.ImportanceNormal),
			Emotions:     emotions(entities.EmotionHappy, entities.EmotionPeaceful, entities.EmotionLoved),
			EmotionNote:  "和好朋友在一起的时光总是特别美好",
			Location:     placeAt("XX山", 40.0, 116.5),
			Participants: people("好朋友"),
			Tags:         []string{"旅行", "日出", "友谊"},
			Category:     "社交",
			Type:         string(entities.EventTypeEvent),
		}},
		{Draft: entities.Draft{
			Title:        "第一次实习",
			Description:  "在一家互联网公司找到了第一份实习工作，做前端开发。第一次体验职场生活，学到了很多。",
			Date:         on(2019, time.July, 1, 0, 0),
			Importance:   string(entities.ImportanceNormal),
			Emotions:     emotions(entities.EmotionExcited, entities.EmotionAnxious, entities.EmotionHopeful),
			EmotionNote:  "第一次进入职场，既兴奋又紧张",
			Location:     place("XX科技公司"),
			Participants: people("同事", "导师"),
			Tags:         []string{"工作", "实习", "成长"},
			Category:     "工作",
			Type:         string(entities.EventTypeEvent),
		}},
		{Draft: entities.Draft{
			Title:        "大学毕业",
			Description:  "完成了本科学业，获得了计算机科学学士学位。这是人生的重要里程碑，感谢家人和朋友的支持。",
			Date:         on(2020, time.June, 15, 0, 0),
			Importance:   string(entities.ImportanceMajor),
			Emotions:     emotions(entities.EmotionExcited, entities.EmotionProud, entities.EmotionGrateful),
			EmotionNote:  "完成了重要的人生里程碑，非常兴奋，也为家人的支持感到感激",
			Location:     placeAt("XX大学", 39.9, 116.4),
			Participants: people("家人", "同学", "老师"),
			Tags:         []string{"教育", "毕业", "里程碑"},
			Category:     "教育",
			Type:         string(entities.EventTypeAchievement),
		}},
		{Draft: entities.Draft{
			Title:        "第一次正式面试",
			Description:  "参加了心仪公司的技术面试，感觉表现还不错，但有点紧张。这是毕业后的第一次正式面试。",
			Date:         on(2020, time.August, 20, 14, 0),
			Importance:   string(entities.ImportanceNormal),
			Emotions:     emotions(entities.EmotionAnxious, entities.EmotionHopeful),
			EmotionNote:  "既紧张又充满希望",
			Location:     place("XX科技公司"),
			Participants: people("面试官"),
			Tags:         []string{"工作", "面试", "求职"},
			Category:     "工作",
			Type:         string(entities.EventTypeEvent),
		}},
		{Draft: entities.Draft{
			Title:        "完成第一个项目",
			Description:  "独立完成了第一个完整的Web项目，学到了很多新技术，也遇到了很多挑战，但最终都解决了。",
			Date:         on(2021, time.September, 15, 0, 0),
			Importance:   string(entities.ImportanceMajor),
			Emotions:     emotions(entities.EmotionProud, entities.EmotionSatisfied, entities.EmotionHopeful),
			EmotionNote:  "很有成就感，对未来充满希望",
			Location:     place("公司"),
			Participants: people("同事"),
			Tags:         []string{"工作", "项目", "成长"},
			Category:     "工作",
			Type:         string(entities.EventTypeAchievement),
		}},
		{Draft: entities.Draft{
			Title:        "参加朋友的婚礼",
			Description:  "参加了大学室友的婚礼，见到了很多老同学，大家都很开心。见证了朋友的幸福时刻，很感动。",
			Date:         on(2022, time.June, 1, 12, 0),
			Importance:   string(entities.ImportanceNormal),
			Emotions:     emotions(entities.EmotionHappy, entities.EmotionGrateful, entities.EmotionLoved),
			EmotionNote:  "见证朋友的幸福，自己也感到温暖",
			Location:     place("XX酒店"),
			Participants: people("朋友", "大学同学"),
			Tags:         []string{"社交", "婚礼", "友谊"},
			Category:     "社交",
			Type:         string(entities.EventTypeEvent),
		}},
		{Draft: entities.Draft{
			Title:       "学会了做红烧肉",
			Description: "跟着视频教程学会了做红烧肉，虽然第一次做，但味道还不错，很有成就感。开始享受做饭的乐趣。",
			Date:        on(2023, time.March, 15, 19, 0),
			Importance:  string(entities.ImportanceMinor),
			Emotions:    emotions(entities.EmotionSatisfied, entities.EmotionHappy),
			EmotionNote: "学会新技能总是让人开心",
			Location:    place("家里"),
			Tags:        []string{"饮食", "烹饪", "学习"},
			Category:    "饮食",
			Type:        string(entities.EventTypeEvent),
		}},
		{Draft: entities.Draft{
			Title:        "工作压力很大的一天",
			Description:  "项目deadline临近，感觉很多事情都做不完，有点焦虑和疲惫。但最终还是完成了任务。",
			Date:         on(2023, time.October, 20, 18, 0),
			Importance:   string(entities.ImportanceMinor),
			Emotions:     emotions(entities.EmotionStressed, entities.EmotionTired, entities.EmotionAnxious),
			EmotionNote:  "工作压力大，需要调整心态",
			Location:     place("公司"),
			Participants: people("同事"),
			Tags:         []string{"工作", "压力", "情绪"},
			Category:     "工作",
			Type:         string(entities.EventTypeEvent),
		}},
		{Draft: entities.Draft{
			Title:       "开始学习新技能",
			Description: "决定学习一门新的编程语言，制定了学习计划，希望能在3个月内掌握基础。保持学习的状态很重要。",
			Date:        on(2024, time.January, 10, 9, 0),
			Importance:  string(entities.ImportanceNormal),
			Emotions:    emotions(entities.EmotionHopeful, entities.EmotionExcited, entities.EmotionFocused),
			EmotionNote: "对新知识充满期待，也有一点担心学不会",
			Location:    place("家里"),
			Tags:        []string{"学习", "技能", "成长"},
			Category:    "学习",
			Type:        string(entities.EventTypeEvent),
		}},
		{Draft: entities.Draft{
			Title:       "今天吃了辣椒炒肉",
			Description: "中午在公司食堂吃的，味道不错，很下饭。最近工作比较忙，能吃到喜欢的菜很开心。",
			Date:        daysAgo(2, 12, 30),
			Importance:  string(entities.ImportanceMinor),
			Emotions:    emotions(entities.EmotionSatisfied, entities.EmotionHappy),
			EmotionNote: "味道不错，很满足",
			Location:    place("公司食堂"),
			Tags:        []string{"饮食", "午餐", "辣椒炒肉"},
			Category:    "饮食",
			Type:        string(entities.EventTypeEvent),
		}},
		{
			Draft: entities.Draft{
				Title:       "今天长痘了",
				Description: "额头长了一颗痘痘，可能是昨天吃了辣的。",
				Date:        daysAgo(1, 8, 0),
				Importance:  string(entities.ImportanceMinor),
				Emotions:    emotions(entities.EmotionAnnoyed),
				EmotionNote: "有点烦恼，影响美观",
				Tags:        []string{"健康", "皮肤", "痘痘"},
				Category:    "健康",
				Type:        string(entities.EventTypeEvent),
			},
			RelatedTo: []int{12},
		},
	}
}
