package organizer

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

type testEnv struct {
	fs     afero.Fs
	source string
	target string
	logs   *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tempDir := t.TempDir()
	env := &testEnv{
		fs:     afero.NewOsFs(),
		source: filepath.Join(tempDir, "downloads"),
		target: filepath.Join(tempDir, "organized"),
		logs:   &bytes.Buffer{},
	}
	if err := os.MkdirAll(env.source, 0755); err != nil {
		t.Fatalf("创建源目录失败: %v", err)
	}
	return env
}

func (e *testEnv) organizer(dryRun bool) *Organizer {
	return New(e.fs, Options{
		SourceDir:    e.source,
		TargetDir:    e.target,
		DryRun:       dryRun,
		VerifyCopies: true,
	}, zerolog.New(e.logs))
}

func (e *testEnv) writeFile(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(e.source, name), []byte(content), 0644); err != nil {
		t.Fatalf("创建测试文件失败: %v", err)
	}
}

func (e *testEnv) writeZip(t *testing.T, name string, entries map[string]string) {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for entryName, content := range entries {
		w, err := zw.Create(entryName)
		if err != nil {
			t.Fatalf("写入条目 %s 失败: %v", entryName, err)
		}
		if _, err := io.WriteString(w, content); err != nil {
			t.Fatalf("写入条目 %s 失败: %v", entryName, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("关闭归档失败: %v", err)
	}

	e.writeFile(t, name, buf.String())
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("读取目录 %s 失败: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// tamperFs 写入时翻转所有字节，用于模拟复制损坏
type tamperFs struct {
	afero.Fs
}

func (t tamperFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	f, err := t.Fs.OpenFile(name, flag, perm)
	if err != nil || flag&(os.O_WRONLY|os.O_RDWR) == 0 {
		return f, err
	}
	return tamperFile{f}, nil
}

type tamperFile struct {
	afero.File
}

func (f tamperFile) Write(p []byte) (int, error) {
	q := make([]byte, len(p))
	for i := range p {
		q[i] = p[i] ^ 0xff
	}
	return f.File.Write(q)
}
