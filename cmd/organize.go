package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moyu-x/classified-records/app"
	"github.com/moyu-x/classified-records/config"
)

var organizeCmd = &cobra.Command{
	Use:   "organize",
	Short: "整理源目录中的下载文件",
	Long: `读取源目录第一层的所有文件，按文件名识别类型后放入记录文件夹:
1. EMPTY - <编码> - <序号> - <姓名>.txt 创建内容数为 00 的文件夹
2. FILE - <编码> - <序号> - <姓名>.pdf 创建内容数为 01 的文件夹
3. <编码> - <序号> - <姓名>.zip 解压后按真实文件数命名
4. <编码> - <姓名>.zip 没有序号时使用 XXXX
任何文件失败时退出码为 1。`,
	Args: cobra.NoArgs,
	RunE: runOrganize,
}

func runOrganize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags(), cfgFile)
	if err != nil {
		return err
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	noVerify, _ := cmd.Flags().GetBool("no-verify")
	reportFile, _ := cmd.Flags().GetString("report")

	opts := &app.OrganizeOptions{
		SourceDir:    cfg.Source.Dir,
		TargetDir:    cfg.Target.Dir,
		DryRun:       dryRun,
		VerifyCopies: cfg.Organizer.VerifyCopies && !noVerify,
		ReportFile:   reportFile,
		Verbose:      verbose,
		LogLevel:     cfg.Logging.Level,
		LogFile:      cfg.Logging.File,
	}

	res, err := app.RunOrganize(opts)
	if res != nil {
		fmt.Println(renderSummary(&res.Stats, res.DryRun))
	}
	if err != nil {
		return err
	}

	if res.Stats.Failed > 0 {
		return fmt.Errorf("%d 个文件处理失败", res.Stats.Failed)
	}

	return nil
}

func init() {
	organizeCmd.Flags().String("source", "", "源目录 (默认: downloads)")
	organizeCmd.Flags().String("target", "", "目标目录 (默认: organized)")
	organizeCmd.Flags().Bool("dry-run", false, "只显示将要执行的操作，不修改文件")
	organizeCmd.Flags().Bool("verbose", false, "显示详细日志")
	organizeCmd.Flags().String("report", "", "将运行报告写入 YAML 文件")
	organizeCmd.Flags().Bool("no-verify", false, "复制后不校验哈希")

	rootCmd.AddCommand(organizeCmd)
}
