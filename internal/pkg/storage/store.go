package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	SchemeCAS  = "cas://"
	SchemeIPFS = "ipfs://"
)

// ObjectStore 内容寻址的对象存储，相同字节得到相同 locator
type ObjectStore interface {
	PutFile(ctx context.Context, name, contentType string, data []byte) (string, error)
	PutJSON(ctx context.Context, name string, v any) (string, error)
	// URL 将 locator 转换为网关访问地址
	URL(locator string) string
}

// ContentAddress 计算字节内容的 sha256 地址
func ContentAddress(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// CASLocator 构造 cas:// locator
func CASLocator(address string) string {
	return SchemeCAS + address
}

// IPFSLocator 构造 ipfs:// locator
func IPFSLocator(cid string) string {
	return SchemeIPFS + cid
}

// SplitLocator 拆分 locator 为 scheme 与 key
func SplitLocator(locator string) (scheme, key string) {
	for _, s := range []string{SchemeCAS, SchemeIPFS} {
		if strings.HasPrefix(locator, s) {
			return s, strings.TrimPrefix(locator, s)
		}
	}
	return "", locator
}
