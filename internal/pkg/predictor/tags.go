package predictor

import (
	"hash/fnv"
	"math"
)

var BaseTags = []string{"nft", "creator", "digital-art"}

var MediaTags = map[string][]string{
	"image": {"art", "photography"},
	"video": {"video", "film"},
	"audio": {"music", "audio"},
}

var TrendingTagPool = []string{
	"trending", "collectible", "limited-edition", "web3", "exclusive",
	"rare", "community", "onchain", "creator-economy", "viral",
}

// RecommendTags 基础标签 + 媒体标签 + 按波动率取 2~4 个热门标签，去重保序
func RecommendTags(title, contentType string, volatility float64, pool []string) []string {
	tags := make([]string, 0, len(BaseTags)+6)
	seen := make(map[string]struct{})
	add := func(tag string) {
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	for _, t := range BaseTags {
		add(t)
	}
	for _, t := range MediaTags[contentType] {
		add(t)
	}

	if len(pool) == 0 {
		return tags
	}
	n := TrendingTagCount(volatility)
	offset := int(titleHash(title) % uint32(len(pool)))
	for i := 0; i < n && i < len(pool); i++ {
		add(pool[(offset+i)%len(pool)])
	}
	return tags
}

// TrendingTagCount 波动率越大热门标签越多，范围 [2, 4]
func TrendingTagCount(volatility float64) int {
	return 2 + int(math.Round(2*Clamp(volatility, 0, 1)))
}

func titleHash(title string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(title))
	return h.Sum32()
}
