package organizer

import (
	"github.com/moyu-x/classified-records/internal"
	"github.com/moyu-x/classified-records/pkg/classifier"
	"github.com/moyu-x/classified-records/pkg/folder"
)

// State 单个文件的处理阶段
type State int

const (
	StateClassified State = iota
	StateFolderCreated
	StateContentPlaced
	StateFinalized
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateClassified:
		return "classified"
	case StateFolderCreated:
		return "folder-created"
	case StateContentPlaced:
		return "content-placed"
	case StateFinalized:
		return "finalized"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Record 单个输入文件的处理结果，Organize 返回后不再修改
type Record struct {
	Source       string
	Kind         internal.Kind
	FolderName   string
	ContentCount int
	State        State
	Err          error    // State 为 StateFailed 时的原因
	ExtractErr   error    // 归档损坏或解压失败，不影响处理成功
	Skipped      []string // 归档中因路径不安全被跳过的条目
}

func (r Record) Succeeded() bool {
	return r.State == StateFinalized
}

// placement 是文件夹名与内容数量的一对取值
// 归档在解压前是临时值，重新计数后通过 corrected 得到最终值
type placement struct {
	file   classifier.File
	folder string
	count  int
}

func provisional(f classifier.File) placement {
	count := f.Kind.ProvisionalCount()
	return placement{file: f, folder: folder.Render(f, count), count: count}
}

func (p placement) corrected(count int) placement {
	return placement{file: p.file, folder: folder.Render(p.file, count), count: count}
}
