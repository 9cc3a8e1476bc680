package util

import (
	"Mintora/internal/model"
	"Mintora/internal/pkg/consts"
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
)

var (
	ErrEmptyFile         = errors.New("文件为空")
	ErrFileTooLarge      = errors.New("文件过大")
	ErrFileTypeMismatch  = errors.New("文件类型与内容类型不匹配")
	ErrUnknownMediaClass = errors.New("无法识别的文件类型")
)

// extMime 嗅探失败时按扩展名兜底
var extMime = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// DetectMimeType 嗅探文件内容的 MIME 类型
func DetectMimeType(filename string, data []byte) string {
	mime := http.DetectContentType(data)
	if mime != "application/octet-stream" && !strings.HasPrefix(mime, "text/plain") {
		return mime
	}
	if i := strings.LastIndex(filename, "."); i >= 0 {
		if m, ok := extMime[strings.ToLower(filename[i:])]; ok {
			return m
		}
	}
	return mime
}

// MediaClass MIME 类型对应的内容类型
func MediaClass(mime string) string {
	switch {
	case strings.HasPrefix(mime, consts.MimePrefixImage+"/"):
		return model.ContentTypeImage
	case strings.HasPrefix(mime, consts.MimePrefixVideo+"/"):
		return model.ContentTypeVideo
	case strings.HasPrefix(mime, consts.MimePrefixAudio+"/"):
		return model.ContentTypeAudio
	}
	return ""
}

// CheckMediaFile 校验文件非空、大小与声明的内容类型一致，返回 MIME 类型
func CheckMediaFile(filename string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if len(data) > consts.MaxUploadSize {
		return "", ErrFileTooLarge
	}
	mime := DetectMimeType(filename, data)
	class := MediaClass(mime)
	if class == "" {
		return mime, ErrUnknownMediaClass
	}
	if class != contentType {
		return mime, ErrFileTypeMismatch
	}
	return mime, nil
}

// ImageSize 解析图片宽高，非图片或解码失败返回 ok=false
func ImageSize(data []byte) (width, height int, ok bool) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return 0, 0, false
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), true
}
