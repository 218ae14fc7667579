package internal

// 文件种类
type Kind string

const (
	KindPlaceholder Kind = "empty"
	KindDocument    Kind = "pdf"
	KindArchive     Kind = "zip"
)

// Kinds 按汇总输出顺序排列
var Kinds = []Kind{KindPlaceholder, KindDocument, KindArchive}

// Extension 返回该种类要求的扩展名（小写，不含点）
func (k Kind) Extension() string {
	switch k {
	case KindPlaceholder:
		return "txt"
	case KindDocument:
		return "pdf"
	case KindArchive:
		return "zip"
	}
	return ""
}

// ProvisionalCount 返回创建文件夹时使用的初始内容数量
func (k Kind) ProvisionalCount() int {
	switch k {
	case KindDocument:
		return 1
	case KindArchive:
		return ProvisionalArchiveCount
	}
	return 0
}

func (k Kind) Label() string {
	switch k {
	case KindPlaceholder:
		return "EMPTY records"
	case KindDocument:
		return "PDF files"
	case KindArchive:
		return "ZIP archives"
	}
	return string(k)
}
