package app

import (
	"fmt"
	"os"

	"github.com/moyu-x/classified-records/pkg/database"
	"github.com/moyu-x/classified-records/pkg/listing"
	"github.com/moyu-x/classified-records/pkg/logger"
)

type ImportOptions struct {
	ListingFile string
	DBPath      string
	ShowCode    string
	LogLevel    string
	LogFile     string
}

type ImportResult struct {
	Listing *listing.Listing
	Summary *database.Summary
	// Files 为 ShowCode 对应员工的文件记录
	Files   []database.EmployeeFile
}

// RunImport 解析文件清单并写入数据库
func RunImport(opts *ImportOptions) (*ImportResult, error) {
	log, closeLog, err := logger.Open(opts.LogLevel, opts.LogFile)
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	defer closeLog()

	f, err := os.Open(opts.ListingFile)
	if err != nil {
		return nil, fmt.Errorf("打开清单文件失败: %w", err)
	}
	defer f.Close()

	l, err := listing.Parse(f)
	if err != nil {
		return nil, err
	}

	for _, issue := range l.Issues {
		log.Warn().Int("line", issue.Line).Str("text", issue.Text).Msg("无法解析的清单行")
	}
	log.Info().
		Int("employees", len(l.Employees)).
		Int("files", len(l.Files)).
		Int("content", l.ContentFiles()).
		Int("issues", len(l.Issues)).
		Msg("清单解析完成")

	db, err := database.NewDatabase(opts.DBPath, log)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := db.Replace(l); err != nil {
		return nil, err
	}

	summary, err := db.Summary()
	if err != nil {
		return nil, err
	}

	res := &ImportResult{Listing: l, Summary: summary}
	if opts.ShowCode != "" {
		res.Files, err = db.FilesFor(opts.ShowCode)
		if err != nil {
			return nil, err
		}
	}

	return res, nil
}
