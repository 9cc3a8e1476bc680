package util

import (
	"strings"
	"unicode"
)

const (
	MaxCoinNameRunes   = 64
	MaxCoinSymbolRunes = 6
	FallbackCoinSymbol = "COIN"
	FallbackCoinName   = "Creator Coin"
	MaxCustomSymbol    = 12
)

// DeriveCoinSymbol 取标题中每个单词首个字母或数字并大写，最多 6 位
func DeriveCoinSymbol(title string) string {
	var sb strings.Builder
	count := 0
	for _, word := range strings.FieldsFunc(title, isWordSeparator) {
		for _, r := range word {
			if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
				continue
			}
			sb.WriteRune(unicode.ToUpper(r))
			count++
			break
		}
		if count >= MaxCoinSymbolRunes {
			break
		}
	}
	if count == 0 {
		return FallbackCoinSymbol
	}
	return sb.String()
}

// DeriveCoinName 去除首尾空白的标题，截断到 64 个字符
func DeriveCoinName(title string) string {
	name := strings.TrimSpace(title)
	if name == "" {
		return FallbackCoinName
	}
	runes := []rune(name)
	if len(runes) > MaxCoinNameRunes {
		return strings.TrimSpace(string(runes[:MaxCoinNameRunes]))
	}
	return name
}

// NormalizeCoinSymbol 用户自定义的代币符号，清洗后为空时返回空串
func NormalizeCoinSymbol(symbol string) string {
	var sb strings.Builder
	count := 0
	for _, r := range strings.TrimSpace(symbol) {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			continue
		}
		sb.WriteRune(unicode.ToUpper(r))
		count++
		if count >= MaxCustomSymbol {
			break
		}
	}
	return sb.String()
}

func isWordSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '-' || r == '_' || r == '/' || r == '.'
}
