package classifier

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/moyu-x/classified-records/internal"
)

// File 是对一个文件名的解析结果
type File struct {
	Code        string
	Sequence    int
	HasSequence bool
	DisplayName string
	Kind        internal.Kind
	Original    string
}

// Rule 将正则与种类绑定，按顺序尝试，第一个匹配的规则生效
type Rule struct {
	Name        string
	Kind        internal.Kind
	Pattern     *regexp.Regexp
	HasSequence bool
}

var Rules = []Rule{
	{
		Name:        "placeholder",
		Kind:        internal.KindPlaceholder,
		Pattern:     regexp.MustCompile(`^EMPTY - ([A-Z0-9]+) - (\d+) - (.+)$`),
		HasSequence: true,
	},
	{
		Name:        "document",
		Kind:        internal.KindDocument,
		Pattern:     regexp.MustCompile(`^FILE - ([A-Z0-9]+) - (\d+) - (.+)$`),
		HasSequence: true,
	},
	{
		Name:        "archive",
		Kind:        internal.KindArchive,
		Pattern:     regexp.MustCompile(`^([A-Z0-9]+) - (\d+) - (.+)$`),
		HasSequence: true,
	},
	{
		Name:    "archive-legacy",
		Kind:    internal.KindArchive,
		Pattern: regexp.MustCompile(`^([A-Z0-9]+) - (.+)$`),
	},
}

// Classify 按命名规则解析文件名
// 都不匹配时返回 internal.ErrUnparseableName
func Classify(filename string) (File, error) {
	stem, ext := splitExt(filename)

	for _, rule := range Rules {
		if f, ok := rule.match(stem, ext); ok {
			f.Original = filename
			return f, nil
		}
	}

	return File{}, fmt.Errorf("%w: %s", internal.ErrUnparseableName, filename)
}

func (r Rule) match(stem, ext string) (File, bool) {
	if ext != r.Kind.Extension() {
		return File{}, false
	}

	m := r.Pattern.FindStringSubmatch(stem)
	if m == nil {
		return File{}, false
	}

	f := File{Code: m[1], Kind: r.Kind}
	if !r.HasSequence {
		f.DisplayName = m[2]
		return f, true
	}

	seq, err := strconv.ParseUint(m[2], 10, 31)
	if err != nil {
		return File{}, false
	}
	f.Sequence = int(seq)
	f.HasSequence = true
	f.DisplayName = m[3]

	return f, true
}

// splitExt 在最后一个点处拆分，扩展名转为小写
func splitExt(filename string) (string, string) {
	i := strings.LastIndex(filename, ".")
	if i < 0 {
		return filename, ""
	}
	return filename[:i], strings.ToLower(filename[i+1:])
}
