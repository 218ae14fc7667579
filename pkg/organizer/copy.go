package organizer

import (
	"fmt"
	"os"

	"github.com/moyu-x/classified-records/pkg/hasher"
)

// copyFile 复制文件并保留权限与修改时间
// 开启校验时重新计算目标文件的哈希并与源文件比对
func (o *Organizer) copyFile(src, dst string) error {
	sourceFile, err := o.fs.Open(src)
	if err != nil {
		return fmt.Errorf("打开源文件失败: %w", err)
	}
	defer sourceFile.Close()

	info, err := sourceFile.Stat()
	if err != nil {
		return fmt.Errorf("读取源文件信息失败: %w", err)
	}

	destFile, err := o.fs.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("创建目标文件失败: %w", err)
	}

	_, sum, err := hasher.Copy(destFile, sourceFile)
	if err != nil {
		destFile.Close()
		return fmt.Errorf("复制文件内容失败: %w", err)
	}
	if err := destFile.Close(); err != nil {
		return fmt.Errorf("关闭目标文件失败: %w", err)
	}

	if err := o.fs.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("设置文件权限失败: %w", err)
	}
	if err := o.fs.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("设置文件时间失败: %w", err)
	}

	if !o.opts.VerifyCopies {
		return nil
	}

	copied, err := hasher.CalculateHash(o.fs, dst)
	if err != nil {
		return fmt.Errorf("校验复制结果失败: %w", err)
	}
	if copied != sum {
		return fmt.Errorf("复制结果校验不一致: %x != %x", copied, sum)
	}

	o.log.Debug().Str("file", dst).Str("hash", fmt.Sprintf("%x", sum)).Msg("复制校验通过")
	return nil
}
