package app

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/moyu-x/classified-records/pkg/logger"
	"github.com/moyu-x/classified-records/pkg/organizer"
	"github.com/moyu-x/classified-records/pkg/report"
)

type OrganizeOptions struct {
	SourceDir    string
	TargetDir    string
	DryRun       bool
	VerifyCopies bool
	ReportFile   string
	Verbose      bool
	LogLevel     string
	LogFile      string

	// Fs 为空时使用操作系统文件系统
	Fs afero.Fs
}

func RunOrganize(opts *OrganizeOptions) (*organizer.Result, error) {
	logLevel := opts.LogLevel
	if opts.Verbose {
		logLevel = "debug"
	}

	log, closeLog, err := logger.Open(logLevel, opts.LogFile)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	defer closeLog()

	runID := uuid.New().String()
	log = log.With().Str("run", runID).Logger()

	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	log.Info().Msgf("源目录: %s", opts.SourceDir)
	log.Info().Msgf("目标目录: %s", opts.TargetDir)
	if opts.DryRun {
		log.Info().Msg("DRY RUN 模式，不会修改任何文件")
	}

	org := organizer.New(fs, organizer.Options{
		SourceDir:    opts.SourceDir,
		TargetDir:    opts.TargetDir,
		DryRun:       opts.DryRun,
		VerifyCopies: opts.VerifyCopies,
	}, log)

	res, err := org.Run()
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("processed", res.Stats.Processed).
		Int("succeeded", res.Stats.Succeeded).
		Int("failed", res.Stats.Failed).
		Dur("elapsed", res.EndTime.Sub(res.StartTime)).
		Msg("整理完成")

	if opts.ReportFile != "" {
		if err := report.New(runID, res).Write(opts.ReportFile); err != nil {
			return res, err
		}
		log.Info().Msgf("报告已写入: %s", opts.ReportFile)
	}

	return res, nil
}
