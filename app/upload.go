package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"github.com/moyu-x/classified-records/pkg/logger"
	"github.com/moyu-x/classified-records/pkg/storage"
)

type UploadOptions struct {
	TargetDir string
	Storage   storage.Config
	DryRun    bool
	LogLevel  string
	LogFile   string
}

// RunUpload 将整理好的记录文件夹上传到对象存储
func RunUpload(ctx context.Context, opts *UploadOptions) (*storage.UploadStats, error) {
	if opts.Storage.Bucket == "" {
		return nil, errors.New("未配置存储桶")
	}
	if opts.Storage.Endpoint == "" && !opts.DryRun {
		return nil, errors.New("未配置存储地址")
	}

	log, closeLog, err := logger.Open(opts.LogLevel, opts.LogFile)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	defer closeLog()

	var uploader *storage.Uploader
	if opts.DryRun && opts.Storage.Endpoint == "" {
		uploader = storage.NewWithPutter(nil, opts.Storage.Bucket, opts.Storage.Prefix, true, log)
	} else {
		uploader, err = storage.New(opts.Storage, opts.DryRun, log)
		if err != nil {
			return nil, err
		}
	}

	log.Info().
		Str("bucket", opts.Storage.Bucket).
		Str("prefix", opts.Storage.Prefix).
		Msgf("开始上传: %s", opts.TargetDir)

	stats, err := uploader.UploadTree(ctx, afero.NewOsFs(), opts.TargetDir)
	if err != nil {
		return stats, err
	}

	log.Info().
		Int("uploaded", stats.Uploaded).
		Int("failed", stats.Failed).
		Int64("bytes", stats.Bytes).
		Msg("上传完成")

	return stats, nil
}
