package folder

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/moyu-x/classified-records/internal"
	"github.com/moyu-x/classified-records/pkg/classifier"
)

var invalidChars = strings.NewReplacer(
	"<", "_", ">", "_", ":", "_", `"`, "_", "/", "_",
	`\`, "_", "|", "_", "?", "_", "*", "_",
)

// Sanitize 将显示名转换为可用作文件夹名的字符串
func Sanitize(name string) string {
	s := invalidChars.Replace(name)
	s = strings.TrimFunc(s, func(r rune) bool {
		return r == '.' || unicode.IsSpace(r)
	})

	if r := []rune(s); len(r) > internal.MaxDisplayNameLength {
		s = string(r[:internal.MaxDisplayNameLength])
	}

	return s
}

// Render 生成规范文件夹名: "0001 - CODE - Name - 03"
// 没有序号时使用 "XXXX - CODE - Name - 03"
func Render(f classifier.File, count int) string {
	name := Sanitize(f.DisplayName)
	if !f.HasSequence {
		return fmt.Sprintf("%s - %s - %s - %02d", internal.UnknownSequence, f.Code, name, count)
	}
	return fmt.Sprintf("%04d - %s - %s - %02d", f.Sequence, f.Code, name, count)
}
