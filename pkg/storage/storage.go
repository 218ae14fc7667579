package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/h2non/filetype"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/moyu-x/classified-records/internal"
	"github.com/moyu-x/classified-records/pkg/folder"
	"github.com/moyu-x/classified-records/pkg/scanner"
)

const defaultContentType = "application/octet-stream"

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Prefix    string
	UseSSL    bool
	Workers   int
}

// ObjectPutter 上传单个对象，*minio.Client 满足该接口
type ObjectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

var _ ObjectPutter = (*minio.Client)(nil)

type UploadStats struct {
	Uploaded int
	Skipped  int
	Failed   int
	Bytes    int64
}

type Uploader struct {
	api     ObjectPutter
	bucket  string
	prefix  string
	dryRun  bool
	workers int
	log     zerolog.Logger
}

// New 使用静态凭证创建 S3 兼容存储的上传器
func New(cfg Config, dryRun bool, log zerolog.Logger) (*Uploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("创建存储客户端失败: %w", err)
	}

	return NewWithPutter(client, cfg.Bucket, cfg.Prefix, dryRun, log).WithWorkers(cfg.Workers), nil
}

func NewWithPutter(api ObjectPutter, bucket, prefix string, dryRun bool, log zerolog.Logger) *Uploader {
	return &Uploader{
		api:     api,
		bucket:  bucket,
		prefix:  strings.Trim(prefix, "/"),
		dryRun:  dryRun,
		workers: internal.DefaultUploadWorkers,
		log:     log,
	}
}

// WithWorkers 设置并发上传数，n <= 0 时保持默认值
func (u *Uploader) WithWorkers(n int) *Uploader {
	if n > 0 {
		u.workers = n
	}
	return u
}

// Key 返回对象键: <prefix>/<文件夹>/<文件>
func (u *Uploader) Key(rel string) string {
	rel = filepath.ToSlash(rel)
	if u.prefix == "" {
		return rel
	}
	return path.Join(u.prefix, rel)
}

// UploadTree 上传 root 下各记录文件夹中的内容文件
// 上传在固定大小的 goroutine 池中进行，单个对象失败只计数，不中断
func (u *Uploader) UploadTree(ctx context.Context, fs afero.Fs, root string) (*UploadStats, error) {
	if _, err := fs.Stat(root); err != nil {
		return nil, fmt.Errorf("目标目录不可用: %w", err)
	}

	pool, err := ants.NewPool(u.workers)
	if err != nil {
		return nil, fmt.Errorf("创建上传池失败: %w", err)
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		uploaded atomic.Int64
		failed   atomic.Int64
		written  atomic.Int64
		skipped  int
	)

	walker := scanner.NewFileWalker(fs)
	walkErr := walker.Walk(root, func(p string, info os.FileInfo) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}

		// 只上传记录文件夹中的文件
		if !strings.ContainsRune(filepath.ToSlash(rel), '/') || !folder.IsContent(info.Name()) || !info.Mode().IsRegular() {
			skipped++
			return nil
		}

		key := u.Key(rel)
		size := info.Size()
		if u.dryRun {
			u.log.Info().Str("key", key).Int64("size", size).Msg("[DRY RUN] 将上传对象")
			uploaded.Add(1)
			written.Add(size)
			return nil
		}

		wg.Add(1)
		err = pool.Submit(func() {
			defer wg.Done()
			if err := u.put(ctx, fs, p, key, size); err != nil {
				u.log.Error().Err(err).Str("key", key).Msg("上传对象失败")
				failed.Add(1)
				return
			}
			u.log.Debug().Str("key", key).Int64("size", size).Msg("上传对象完成")
			uploaded.Add(1)
			written.Add(size)
		})
		if err != nil {
			wg.Done()
			u.log.Error().Err(err).Str("key", key).Msg("提交上传任务失败")
			failed.Add(1)
		}
		return nil
	})

	wg.Wait()

	stats := &UploadStats{
		Uploaded: int(uploaded.Load()),
		Skipped:  skipped,
		Failed:   int(failed.Load()),
		Bytes:    written.Load(),
	}
	if walkErr != nil {
		return stats, fmt.Errorf("遍历目录失败: %w", walkErr)
	}

	return stats, nil
}

func (u *Uploader) put(ctx context.Context, fs afero.Fs, p, key string, size int64) error {
	f, err := fs.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()

	contentType, err := detectContentType(f)
	if err != nil {
		return err
	}

	_, err = u.api.PutObject(ctx, u.bucket, key, f, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// detectContentType 读取文件头判断类型，之后把读取位置重置到开头
func detectContentType(f afero.File) (string, error) {
	head := make([]byte, 262)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	kind, err := filetype.Match(head[:n])
	if err != nil || kind == filetype.Unknown {
		return defaultContentType, nil
	}
	return kind.MIME.Value, nil
}
