package folder

import (
	"fmt"
	"strings"

	"github.com/moyu-x/classified-records/internal"
	"github.com/spf13/afero"
)

// CountContent 统计目录下（不递归）真实交付的内容文件数
// 跳过系统元数据文件、隐藏文件和 .zip 归档本身
func CountContent(fs afero.Fs, dir string) (int, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return 0, fmt.Errorf("读取目录失败: %w", err)
	}

	count := 0
	for _, entry := range entries {
		if IsContent(entry.Name()) && entry.Mode().IsRegular() {
			count++
		}
	}

	return count, nil
}

// IsContent 按文件名判断是否属于内容文件
func IsContent(name string) bool {
	if internal.SystemArtifacts[name] {
		return false
	}
	if strings.HasPrefix(name, ".") {
		return false
	}
	if strings.HasSuffix(strings.ToLower(name), ".zip") {
		return false
	}
	return true
}
