package organizer

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/moyu-x/classified-records/internal"
	"github.com/moyu-x/classified-records/pkg/archive"
	"github.com/moyu-x/classified-records/pkg/classifier"
	"github.com/moyu-x/classified-records/pkg/folder"
	"github.com/moyu-x/classified-records/pkg/scanner"
)

type Options struct {
	SourceDir    string
	TargetDir    string
	DryRun       bool
	VerifyCopies bool
}

// Organizer 将源目录中的文件逐个整理到目标目录的记录文件夹中
type Organizer struct {
	fs     afero.Fs
	opts   Options
	log    zerolog.Logger
	walker *scanner.FileWalker
}

func New(fs afero.Fs, opts Options, log zerolog.Logger) *Organizer {
	return &Organizer{
		fs:     fs,
		opts:   opts,
		log:    log,
		walker: scanner.NewFileWalker(fs),
	}
}

// Organize 处理源目录中的单个文件
// 失败不会返回错误，而是记录在 Record 中
func (o *Organizer) Organize(filename string) Record {
	rec := Record{Source: filename}

	file, err := classifier.Classify(filename)
	if err != nil {
		o.log.Warn().Str("file", filename).Msg("跳过无法解析的文件")
		return o.fail(rec, err)
	}

	p := provisional(file)
	rec.Kind = file.Kind
	rec.FolderName = p.folder
	rec.ContentCount = p.count
	rec.State = StateClassified

	targetDir := filepath.Join(o.opts.TargetDir, p.folder)

	if o.opts.DryRun {
		o.log.Info().Str("folder", targetDir).Msg("[DRY RUN] 将创建文件夹")
		rec.State = StateFinalized
		return rec
	}

	if err := o.fs.Mkdir(targetDir, 0755); err != nil {
		return o.fail(rec, fsError("创建文件夹失败", err))
	}
	rec.State = StateFolderCreated

	src := filepath.Join(o.opts.SourceDir, filename)
	dst := filepath.Join(targetDir, filename)
	if err := o.copyFile(src, dst); err != nil {
		return o.fail(rec, fsError("复制文件失败", err))
	}
	rec.State = StateContentPlaced

	switch file.Kind {
	case internal.KindPlaceholder:
		o.log.Info().Str("file", filename).Str("folder", p.folder).Msg("已复制 EMPTY 文件")
	case internal.KindDocument:
		o.log.Info().Str("file", filename).Str("folder", p.folder).Msg("已复制 PDF 文件")
	case internal.KindArchive:
		return o.finalizeArchive(rec, p, dst)
	}

	rec.State = StateFinalized
	return rec
}

// finalizeArchive 解压归档，重新计数，必要时重命名文件夹
func (o *Organizer) finalizeArchive(rec Record, p placement, archivePath string) Record {
	dir := filepath.Dir(archivePath)

	res, err := archive.Extract(o.fs, archivePath, dir)
	for _, name := range res.Skipped {
		o.log.Warn().Str("archive", rec.Source).Str("entry", name).Msg("归档中存在可疑路径，已跳过")
	}
	switch {
	case errors.Is(err, internal.ErrCorruptArchive):
		o.log.Error().Err(err).Str("archive", rec.Source).Msg("归档已损坏")
		rec.ExtractErr = err
	case err != nil:
		o.log.Error().Err(err).Str("archive", rec.Source).Msg("解压归档失败")
		rec.ExtractErr = err
	default:
		o.log.Info().
			Str("archive", rec.Source).
			Int("manifest", res.Manifest).
			Int("written", res.Written).
			Msg("已解压归档")
	}
	rec.Skipped = res.Skipped

	count, err := folder.CountContent(o.fs, dir)
	if err != nil {
		return o.fail(rec, fsError("统计内容文件失败", err))
	}

	if count != p.count {
		next := p.corrected(count)
		nextDir := filepath.Join(o.opts.TargetDir, next.folder)

		exists, err := afero.Exists(o.fs, nextDir)
		if err != nil {
			return o.fail(rec, fsError("检查目标文件夹失败", err))
		}
		if exists {
			return o.fail(rec, fsError("重命名文件夹失败", fmt.Errorf("%s 已存在", next.folder)))
		}
		if err := o.fs.Rename(dir, nextDir); err != nil {
			return o.fail(rec, fsError("重命名文件夹失败", err))
		}

		o.log.Info().Str("folder", next.folder).Msg("已按实际文件数重命名文件夹")
		p = next
	}

	rec.FolderName = p.folder
	rec.ContentCount = p.count
	rec.State = StateFinalized

	o.log.Info().
		Str("file", rec.Source).
		Str("folder", p.folder).
		Int("files", p.count).
		Msg("已处理 ZIP 文件")
	return rec
}

func (o *Organizer) fail(rec Record, err error) Record {
	rec.State = StateFailed
	rec.Err = err
	if !errors.Is(err, internal.ErrUnparseableName) {
		o.log.Error().Err(err).Str("file", rec.Source).Msg("处理文件失败")
	}
	return rec
}

func fsError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", internal.ErrFilesystem, op, err)
}
