package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moyu-x/classified-records/app"
	"github.com/moyu-x/classified-records/config"
)

var importCmd = &cobra.Command{
	Use:   "import <listing.txt>",
	Short: "将文件清单导入数据库",
	Long: `解析形如 "<序号> - <编码> - <姓名> - <数量>/<文件名>" 的清单文件，
在一个事务中替换数据库中的员工与文件记录。`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags(), cfgFile)
	if err != nil {
		return err
	}

	showCode, _ := cmd.Flags().GetString("show")

	res, err := app.RunImport(&app.ImportOptions{
		ListingFile: args[0],
		DBPath:      cfg.Database.Path,
		ShowCode:    showCode,
		LogLevel:    cfg.Logging.Level,
		LogFile:     cfg.Logging.File,
	})
	if err != nil {
		return err
	}

	s := res.Summary
	fmt.Printf("员工: %d\n文件: %d (内容 %d, 占位 %d)\n无法解析的行: %d\n",
		s.Employees, s.Files, s.ContentFiles, s.EmptyFiles, len(res.Listing.Issues))

	if showCode != "" {
		fmt.Printf("\n%s 的文件 (%d):\n", showCode, len(res.Files))
		for _, f := range res.Files {
			fmt.Printf("  [%s] %s\n", f.CategoryCode, f.FilePath)
		}
	}

	return nil
}

func init() {
	importCmd.Flags().String("db", "", "数据库路径 (默认: ~/.classified-records/records.db)")
	importCmd.Flags().String("show", "", "导入后列出该员工编码的文件记录")

	rootCmd.AddCommand(importCmd)
}
