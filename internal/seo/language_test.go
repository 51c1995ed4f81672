package seo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		defaultLang string
		audioLang   string
		want        Language
	}{
		{
			name:        "platform language hint wins",
			title:       "A Fully English Title About Hiking",
			defaultLang: "zh-CN",
			want:        LanguageChinese,
		},
		{
			name:      "audio language hint",
			title:     "全中文标题完全没有英文",
			audioLang: "en-US",
			want:      LanguageEnglish,
		},
		{
			name:  "chinese title",
			title: "东京五日游完整攻略，必看景点全记录",
			want:  LanguageChinese,
		},
		{
			name:  "english title",
			title: "Tokyo 5 Day Itinerary Complete Guide",
			want:  LanguageEnglish,
		},
		{
			name:        "mixed title falls back to description",
			title:       "Day 1 东京散步",
			description: "这是一段很长的中文描述，介绍了整个行程，包括交通、住宿、美食等内容。",
			want:        LanguageChinese,
		},
		{
			name: "empty everything defaults to english",
			want: LanguageEnglish,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectLanguage(tt.title, tt.description, tt.defaultLang, tt.audioLang)
			assert.Equal(t, tt.want, got)
		})
	}
}
