package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/spf13/afero"

	"github.com/moyu-x/classified-records/internal"
)

// 文件类型检测读取的头部大小
const headerSize = 262

// Result 解压结果
type Result struct {
	Manifest int      // 中央目录中的非目录条目数
	Written  int      // 实际写入的非目录条目数
	Skipped  []string // 因路径不安全或会覆盖归档本身而跳过的条目
}

// Extract 将 archivePath 解压到 dest
// 归档不可读时返回 internal.ErrCorruptArchive，其他 I/O 错误返回 internal.ErrExtraction
func Extract(fs afero.Fs, archivePath, dest string) (Result, error) {
	var res Result

	f, err := fs.Open(archivePath)
	if err != nil {
		return res, fmt.Errorf("%w: 打开归档失败: %w", internal.ErrExtraction, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return res, fmt.Errorf("%w: 读取归档信息失败: %w", internal.ErrExtraction, err)
	}

	if err := checkHeader(f); err != nil {
		return res, err
	}

	// 不安全的条目名在下面逐个跳过，不拒绝整个归档
	zr, err := zip.NewReader(f, info.Size())
	if err != nil && !(errors.Is(err, zip.ErrInsecurePath) && zr != nil) {
		return res, fmt.Errorf("%w: %w", internal.ErrCorruptArchive, err)
	}

	for _, entry := range zr.File {
		if !entry.FileInfo().IsDir() && !strings.HasSuffix(entry.Name, "/") {
			res.Manifest++
		}
	}

	for _, entry := range zr.File {
		target, ok := safeTarget(dest, entry.Name)
		if ok && samePath(target, archivePath) {
			ok = false
		}
		if !ok {
			res.Skipped = append(res.Skipped, entry.Name)
			continue
		}

		if strings.HasSuffix(entry.Name, "/") || entry.FileInfo().IsDir() {
			if err := fs.MkdirAll(target, 0755); err != nil {
				return res, fmt.Errorf("%w: 创建目录失败: %w", internal.ErrExtraction, err)
			}
			continue
		}

		if err := writeEntry(fs, entry, target); err != nil {
			return res, fmt.Errorf("%w: %s: %w", internal.ErrExtraction, entry.Name, err)
		}
		res.Written++
	}

	return res, nil
}

// checkHeader 使用文件头判断是否为 zip 归档
func checkHeader(f afero.File) error {
	head := make([]byte, headerSize)
	n, err := f.ReadAt(head, 0)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%w: 读取文件头失败: %w", internal.ErrExtraction, err)
	}

	if !filetype.Is(head[:n], "zip") {
		return fmt.Errorf("%w: 文件头不是 zip 格式", internal.ErrCorruptArchive)
	}
	return nil
}

func writeEntry(fs afero.Fs, entry *zip.File, target string) error {
	if err := fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	rc, err := entry.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := fs.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// IsUnsafe 判断条目名是否为绝对路径或包含 ".." 段
func IsUnsafe(name string) bool {
	if name == "" {
		return true
	}
	if strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return true
	}
	if len(name) >= 2 && name[1] == ':' {
		return true
	}
	for _, seg := range strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return true
		}
	}
	return false
}

// samePath 判断条目目标是否就是归档本身，大小写不敏感以覆盖不区分大小写的文件系统
func samePath(a, b string) bool {
	if absA, err := filepath.Abs(a); err == nil {
		a = absA
	}
	if absB, err := filepath.Abs(b); err == nil {
		b = absB
	}
	return strings.EqualFold(filepath.Clean(a), filepath.Clean(b))
}

// safeTarget 返回条目在 dest 下的目标路径，越界时返回 false
func safeTarget(dest, name string) (string, bool) {
	if IsUnsafe(name) {
		return "", false
	}

	clean := path.Clean(strings.ReplaceAll(name, `\`, "/"))
	if clean == "." {
		return "", false
	}

	target := filepath.Join(dest, filepath.FromSlash(clean))
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return target, true
}
