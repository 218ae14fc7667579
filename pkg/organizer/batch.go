package organizer

import (
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/moyu-x/classified-records/internal"
)

type Result struct {
	Stats     Stats
	Records   []Record
	DryRun    bool
	StartTime time.Time
	EndTime   time.Time
}

// Run 按枚举顺序处理源目录第一层的所有文件
// 只有源目录不存在时返回错误，单个文件失败只计入统计
func (o *Organizer) Run() (*Result, error) {
	exists, err := afero.DirExists(o.fs, o.opts.SourceDir)
	if err != nil || !exists {
		o.log.Error().Str("source", o.opts.SourceDir).Msg("源目录不存在")
		return nil, fmt.Errorf("%w: %s", internal.ErrSourceMissing, o.opts.SourceDir)
	}

	res := &Result{
		Stats:     NewStats(),
		DryRun:    o.opts.DryRun,
		StartTime: time.Now(),
	}

	names, err := o.walker.List(o.opts.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("列出源目录文件失败: %w", err)
	}

	if len(names) == 0 {
		o.log.Info().Str("source", o.opts.SourceDir).Msg("源目录中没有文件")
		res.EndTime = time.Now()
		return res, nil
	}

	o.log.Info().Int("count", len(names)).Msg("找到待处理文件")

	if !o.opts.DryRun {
		if err := o.fs.MkdirAll(o.opts.TargetDir, 0755); err != nil {
			o.log.Error().Err(err).Str("target", o.opts.TargetDir).Msg("创建目标目录失败")
		}
	}

	for i, name := range names {
		o.log.Info().Int("current", i+1).Int("total", len(names)).Str("file", name).Msg("正在处理")

		rec := o.Organize(name)
		res.Stats.Add(rec)
		res.Records = append(res.Records, rec)
	}

	res.EndTime = time.Now()
	return res, nil
}
