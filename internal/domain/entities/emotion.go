package entities

import "strings"

// Emotion is one value from the fixed emotion table.
type Emotion string

// Polarity groups emotions for display and statistics.
type Polarity string

const (
	PolarityPositive Polarity = "positive"
	PolarityNeutral  Polarity = "neutral"
	PolarityNegative Polarity = "negative"
)

const (
	EmotionHappy     Emotion = "happy"
	EmotionExcited   Emotion = "excited"
	EmotionGrateful  Emotion = "grateful"
	EmotionPeaceful  Emotion = "peaceful"
	EmotionSatisfied Emotion = "satisfied"
	EmotionProud     Emotion = "proud"
	EmotionHopeful   Emotion = "hopeful"
	EmotionLoved     Emotion = "loved"
	EmotionContent   Emotion = "content"

	EmotionNeutral Emotion = "neutral"
	EmotionCalm    Emotion = "calm"
	EmotionFocused Emotion = "focused"

	EmotionSad          Emotion = "sad"
	EmotionAngry        Emotion = "angry"
	EmotionAnxious      Emotion = "anxious"
	EmotionStressed     Emotion = "stressed"
	EmotionTired        Emotion = "tired"
	EmotionFrustrated   Emotion = "frustrated"
	EmotionLonely       Emotion = "lonely"
	EmotionWorried      Emotion = "worried"
	EmotionDisappointed Emotion = "disappointed"
	EmotionConfused     Emotion = "confused"
	EmotionBored        Emotion = "bored"
	EmotionAnnoyed      Emotion = "annoyed"
)

// EmotionOption is a row of the emotion table.
type EmotionOption struct {
	Value    Emotion  `json:"value"`
	Label    string   `json:"label"`
	Polarity Polarity `json:"polarity"`
}

// EmotionOptions is the ordered emotion table, grouped by polarity.
var EmotionOptions = []EmotionOption{
	{EmotionHappy, "开心", PolarityPositive},
	{EmotionExcited, "兴奋", PolarityPositive},
	{EmotionGrateful, "感激", PolarityPositive},
	{EmotionPeaceful, "平静", PolarityPositive},
	{EmotionSatisfied, "满足", PolarityPositive},
	{EmotionProud, "自豪", PolarityPositive},
	{EmotionHopeful, "充满希望", PolarityPositive},
	{EmotionLoved, "被爱/爱", PolarityPositive},
	{EmotionContent, "满足/知足", PolarityPositive},

	{EmotionNeutral, "中性/无感", PolarityNeutral},
	{EmotionCalm, "平静", PolarityNeutral},
	{EmotionFocused, "专注", PolarityNeutral},

	{EmotionSad, "难过", PolarityNegative},
	{EmotionAngry, "愤怒", PolarityNegative},
	{EmotionAnxious, "焦虑", PolarityNegative},
	{EmotionStressed, "压力大", PolarityNegative},
	{EmotionTired, "疲惫", PolarityNegative},
	{EmotionFrustrated, "沮丧", PolarityNegative},
	{EmotionLonely, "孤独", PolarityNegative},
	{EmotionWorried, "担心", PolarityNegative},
	{EmotionDisappointed, "失望", PolarityNegative},
	{EmotionConfused, "困惑", PolarityNegative},
	{EmotionBored, "无聊", PolarityNegative},
	{EmotionAnnoyed, "烦恼", PolarityNegative},
}

var emotionIndex = func() map[Emotion]int {
	m := make(map[Emotion]int, len(EmotionOptions))
	for i, opt := range EmotionOptions {
		m[opt.Value] = i
	}
	return m
}()

// LookupEmotion returns the table row for e.
func LookupEmotion(e Emotion) (EmotionOption, bool) {
	i, ok := emotionIndex[e]
	if !ok {
		return EmotionOption{}, false
	}
	return EmotionOptions[i], true
}

// IsValid reports whether e is in the emotion table.
func (e Emotion) IsValid() bool {
	_, ok := emotionIndex[e]
	return ok
}

// Label returns the display label, or the raw value for unknown emotions.
func (e Emotion) Label() string {
	if opt, ok := LookupEmotion(e); ok {
		return opt.Label
	}
	return string(e)
}

// ParseEmotion accepts either a table value (case-insensitive) or a display
// label. Labels shared by two rows resolve to the first row.
func ParseEmotion(s string) (Emotion, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if e := Emotion(strings.ToLower(s)); e.IsValid() {
		return e, true
	}
	for _, opt := range EmotionOptions {
		if opt.Label == s {
			return opt.Value, true
		}
	}
	return "", false
}
