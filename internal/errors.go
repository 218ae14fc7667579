package internal

import "errors"

// 错误分类，使用 errors.Is 判断
var (
	// 文件名不符合任何命名规则
	ErrUnparseableName = errors.New("unparseable file name")

	// 归档无法读取（文件头或中央目录损坏）
	ErrCorruptArchive = errors.New("corrupt archive")

	// 解压过程中的其他 I/O 错误
	ErrExtraction = errors.New("archive extraction failed")

	// 创建目录、复制或重命名失败
	ErrFilesystem = errors.New("filesystem operation failed")

	// 源目录不存在，整个批处理无法开始
	ErrSourceMissing = errors.New("source directory does not exist")
)
