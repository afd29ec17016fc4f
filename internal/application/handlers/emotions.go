package handlers

import (
	"github.com/messixieziyi/life-story/internal/domain/entities"
)

// EmotionGroup is one polarity section of the emotion table.
type EmotionGroup struct {
	Polarity entities.Polarity        `json:"polarity"`
	Options  []entities.EmotionOption `json:"options"`
}

// EmotionHandler exposes the emotion table.
type EmotionHandler struct{}

// NewEmotionHandler creates a new EmotionHandler.
func NewEmotionHandler() *EmotionHandler {
	return &EmotionHandler{}
}

// HandleList returns the table grouped by polarity, in table order.
func (h *EmotionHandler) HandleList() []EmotionGroup {
	var groups []EmotionGroup
	for _, opt := range entities.EmotionOptions {
		if n := len(groups); n == 0 || groups[n-1].Polarity != opt.Polarity {
			groups = append(groups, EmotionGroup{Polarity: opt.Polarity})
		}
		groups[len(groups)-1].Options = append(groups[len(groups)-1].Options, opt)
	}
	return groups
}

// HandleDescribe looks up an emotion by value or display label.
// It returns nil for unknown emotions.
func (h *EmotionHandler) HandleDescribe(value string) *entities.EmotionOption {
	emotion, ok := entities.ParseEmotion(value)
	if !ok {
		return nil
	}
	opt, _ := entities.LookupEmotion(emotion)
	return &opt
}
