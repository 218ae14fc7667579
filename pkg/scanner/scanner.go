package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

type FileWalker struct {
	Fs            afero.Fs
	IncludeHidden bool
}

func NewFileWalker(fs afero.Fs) *FileWalker {
	return &FileWalker{
		Fs:            fs,
		IncludeHidden: false,
	}
}

// List 返回 dir 下第一层的普通文件名，顺序与文件系统枚举顺序一致
// 符号链接按其指向的目标判断
func (w *FileWalker) List(dir string) ([]string, error) {
	f, err := w.Fs.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("打开目录失败: %w", err)
	}
	defer f.Close()

	infos, err := f.Readdir(-1)
	if err != nil {
		return nil, fmt.Errorf("读取目录失败: %w", err)
	}

	var names []string
	for _, info := range infos {
		if w.skip(info.Name()) {
			continue
		}

		if info.Mode()&os.ModeSymlink != 0 {
			target, err := w.Fs.Stat(filepath.Join(dir, info.Name()))
			if err != nil {
				continue
			}
			info = target
		}

		if info.Mode().IsRegular() {
			names = append(names, info.Name())
		}
	}

	return names, nil
}

// Walk 递归遍历 root 下的所有文件，隐藏目录整体跳过
func (w *FileWalker) Walk(root string, callback func(path string, info os.FileInfo) error) error {
	return afero.Walk(w.Fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		if path != root && w.skip(info.Name()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			return nil
		}

		return callback(path, info)
	})
}

func (w *FileWalker) skip(name string) bool {
	return !w.IncludeHidden && strings.HasPrefix(name, ".")
}
