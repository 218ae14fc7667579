package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moyu-x/classified-records/app"
	"github.com/moyu-x/classified-records/config"
	"github.com/moyu-x/classified-records/pkg/storage"
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "将整理好的记录文件夹上传到对象存储",
	Long: `遍历目标目录中的记录文件夹，将内容文件上传到 S3 兼容的存储桶，
对象键为 <前缀>/<文件夹名>/<文件名>。凭证从配置文件或 RECORDS_STORAGE_* 环境变量读取。`,
	Args: cobra.NoArgs,
	RunE: runUpload,
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags(), cfgFile)
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")

	stats, err := app.RunUpload(cmd.Context(), &app.UploadOptions{
		TargetDir: cfg.Target.Dir,
		Storage: storage.Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			Prefix:    cfg.Storage.Prefix,
			UseSSL:    cfg.Storage.UseSSL,
			Workers:   cfg.Storage.Workers,
		},
		DryRun:   dryRun,
		LogLevel: cfg.Logging.Level,
		LogFile:  cfg.Logging.File,
	})
	if err != nil {
		return err
	}

	fmt.Printf("已上传: %d  失败: %d  跳过: %d\n", stats.Uploaded, stats.Failed, stats.Skipped)
	if stats.Failed > 0 {
		return fmt.Errorf("%d 个对象上传失败", stats.Failed)
	}

	return nil
}

func init() {
	uploadCmd.Flags().String("target", "", "已整理的目标目录 (默认: organized)")
	uploadCmd.Flags().String("bucket", "", "存储桶名称")
	uploadCmd.Flags().String("prefix", "", "对象键前缀")
	uploadCmd.Flags().Int("workers", 0, "并发上传数 (默认: 4)")
	uploadCmd.Flags().Bool("dry-run", false, "只列出将要上传的对象")

	rootCmd.AddCommand(uploadCmd)
}
