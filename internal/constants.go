package internal

const (
	// 数据库默认路径
	DefaultDatabasePath = "~/.classified-records/records.db"

	// 默认源目录与目标目录
	DefaultSourceDir = "downloads"
	DefaultTargetDir = "organized"

	// 归档文件在解压前使用的占位计数，不是真实数量
	ProvisionalArchiveCount = 99

	// 文件夹名中显示名的最大长度（字符数）
	MaxDisplayNameLength = 200

	// 没有序号时文件夹名使用的占位符
	UnknownSequence = "XXXX"

	// 并发上传的默认 goroutine 数
	DefaultUploadWorkers = 4
)

// SystemArtifacts 操作系统生成的元数据文件，不计入内容数量
var SystemArtifacts = map[string]bool{
	".DS_Store":   true,
	"Thumbs.db":   true,
	"desktop.ini": true,
	"__MACOSX":    true,
}
