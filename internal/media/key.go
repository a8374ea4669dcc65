package media

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// ObjectKey 生成防碰撞的对象存储 key
// 布局: 审计ID/毫秒时间戳-随机后缀-清洗后的文件名
func ObjectKey(auditID, filename string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%s/%d-%s-%s", auditID, time.Now().UnixMilli(), suffix, SanitizeFilename(filename))
}

// SanitizeFilename 清洗文件名
// 只保留字母、数字、点、下划线和连字符,其余替换为下划线
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
