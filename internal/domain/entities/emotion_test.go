package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmotionOptions_Table(t *testing.T) {
	counts := map[Polarity]int{}
	seen := map[Emotion]bool{}
	for _, opt := range EmotionOptions {
		assert.False(t, seen[opt.Value], "duplicate emotion %s", opt.Value)
		seen[opt.Value] = true
		counts[opt.Polarity]++
	}

	assert.Len(t, EmotionOptions, 24)
	assert.Equal(t, 9, counts[PolarityPositive])
	assert.Equal(t, 3, counts[PolarityNeutral])
	assert.Equal(t, 12, counts[PolarityNegative])
}

func TestEmotion_Label(t *testing.T) {
	assert.Equal(t, "开心", EmotionHappy.Label())
	assert.Equal(t, "烦恼", EmotionAnnoyed.Label())
	assert.Equal(t, "nostalgic", Emotion("nostalgic").Label())
}

func TestParseEmotion(t *testing.T) {
	tests := []struct {
		input    string
		expected Emotion
		ok       bool
	}{
		{"happy", EmotionHappy, true},
		{"HAPPY", EmotionHappy, true},
		{" tired ", EmotionTired, true},
		{"焦虑", EmotionAnxious, true},
		{"平静", EmotionPeaceful, true},
		{"nostalgic", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseEmotion(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLabels_Defaults(t *testing.T) {
	assert.Equal(t, "普通", Importance("").Label())
	assert.Equal(t, "大事", ImportanceMajor.Label())
	assert.Equal(t, "事件", EventType("").Label())
	assert.Equal(t, "成就", EventTypeAchievement.Label())
	assert.Equal(t, "愿望", EventTypeWish.Label())
}
