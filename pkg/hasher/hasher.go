package hasher

import (
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
)

// CalculateHash 计算文件的 xxHash 哈希值
func CalculateHash(fs afero.Fs, filePath string) (uint64, error) {
	file, err := fs.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("打开文件失败: %w", err)
	}
	defer file.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, file); err != nil {
		return 0, fmt.Errorf("计算哈希失败: %w", err)
	}

	return h.Sum64(), nil
}

// Copy 复制数据的同时计算源数据的哈希值
func Copy(dst io.Writer, src io.Reader) (int64, uint64, error) {
	h := xxhash.New()
	n, err := io.Copy(io.MultiWriter(dst, h), src)
	if err != nil {
		return n, 0, err
	}
	return n, h.Sum64(), nil
}
