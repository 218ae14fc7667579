package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "classified-records",
	Short: "将下载的记录文件整理到按编号命名的文件夹中",
	Long: `Classified Records 是一个命令行工具，用于整理批量下载的人事记录文件。

主要功能:
- 按文件名规则识别占位文件、PDF 文档和 ZIP 归档
- 为每个文件创建包含序号、编码、姓名和内容数量的记录文件夹
- 安全解压归档并按真实内容数量修正文件夹名
- 导入文件清单到 SQLite 数据库
- 将整理结果上传到 S3 兼容的对象存储`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件 (默认: $HOME/.classified-records/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "日志级别: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "同时写入的日志文件")
}
