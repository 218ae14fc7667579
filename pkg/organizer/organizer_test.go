package organizer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/moyu-x/classified-records/internal"
)

func TestOrganize_Document(t *testing.T) {
	env := newTestEnv(t)
	name := "FILE - AL5017130 - 1 - Jonathan Abrego.pdf"
	env.writeFile(t, name, "%PDF-1.4 content")
	if err := os.MkdirAll(env.target, 0755); err != nil {
		t.Fatalf("创建目标目录失败: %v", err)
	}

	rec := env.organizer(false).Organize(name)

	if !rec.Succeeded() {
		t.Fatalf("Organize() failed: %v", rec.Err)
	}
	want := "0001 - AL5017130 - Jonathan Abrego - 01"
	if rec.FolderName != want {
		t.Errorf("FolderName = %q, want %q", rec.FolderName, want)
	}
	if rec.ContentCount != 1 {
		t.Errorf("ContentCount = %d, want 1", rec.ContentCount)
	}

	files := listDir(t, filepath.Join(env.target, want))
	if len(files) != 1 || files[0] != name {
		t.Errorf("folder contents = %v, want [%s]", files, name)
	}

	data, err := os.ReadFile(filepath.Join(env.target, want, name))
	if err != nil || string(data) != "%PDF-1.4 content" {
		t.Errorf("copied content = %q, %v", data, err)
	}
	if _, err := os.Stat(filepath.Join(env.source, name)); err != nil {
		t.Errorf("source file must be kept: %v", err)
	}
}

func TestOrganize_Placeholder(t *testing.T) {
	env := newTestEnv(t)
	name := "EMPTY - AXV017147 - 1 - Carlos Abdala.txt"
	env.writeFile(t, name, "")
	if err := os.MkdirAll(env.target, 0755); err != nil {
		t.Fatalf("创建目标目录失败: %v", err)
	}

	rec := env.organizer(false).Organize(name)

	if !rec.Succeeded() {
		t.Fatalf("Organize() failed: %v", rec.Err)
	}
	want := "0001 - AXV017147 - Carlos Abdala - 00"
	if rec.FolderName != want {
		t.Errorf("FolderName = %q, want %q", rec.FolderName, want)
	}
	if rec.ContentCount != 0 {
		t.Errorf("ContentCount = %d, want 0", rec.ContentCount)
	}

	files := listDir(t, filepath.Join(env.target, want))
	if len(files) != 1 || files[0] != name {
		t.Errorf("folder contents = %v, want [%s]", files, name)
	}
}

func TestOrganize_LegacyArchive(t *testing.T) {
	env := newTestEnv(t)
	name := "AXV010046 - Francisco Aguirre.zip"
	env.writeZip(t, name, map[string]string{
		"a.pdf": "1", "b.pdf": "2", "c.pdf": "3", "d.pdf": "4", "e.pdf": "5",
	})
	if err := os.MkdirAll(env.target, 0755); err != nil {
		t.Fatalf("创建目标目录失败: %v", err)
	}

	rec := env.organizer(false).Organize(name)

	if !rec.Succeeded() {
		t.Fatalf("Organize() failed: %v", rec.Err)
	}
	want := "XXXX - AXV010046 - Francisco Aguirre - 05"
	if rec.FolderName != want {
		t.Errorf("FolderName = %q, want %q", rec.FolderName, want)
	}
	if rec.ContentCount != 5 {
		t.Errorf("ContentCount = %d, want 5", rec.ContentCount)
	}

	folders := listDir(t, env.target)
	if len(folders) != 1 || folders[0] != want {
		t.Errorf("target contents = %v, want only %s", folders, want)
	}

	files := listDir(t, filepath.Join(env.target, want))
	if len(files) != 6 {
		t.Errorf("folder contents = %v, want archive plus 5 files", files)
	}
}

func TestOrganize_ArchiveCountCorrected(t *testing.T) {
	env := newTestEnv(t)
	name := "AL5015800 - 1205 - Alejandro Dominguez-Maqueda.zip"
	env.writeZip(t, name, map[string]string{
		"one.pdf":   "1",
		"two.pdf":   "2",
		"three.pdf": "3",
		"empty/":    "",
	})
	if err := os.MkdirAll(env.target, 0755); err != nil {
		t.Fatalf("创建目标目录失败: %v", err)
	}

	rec := env.organizer(false).Organize(name)

	if !rec.Succeeded() {
		t.Fatalf("Organize() failed: %v", rec.Err)
	}
	want := "1205 - AL5015800 - Alejandro Dominguez-Maqueda - 03"
	if rec.FolderName != want {
		t.Errorf("FolderName = %q, want %q", rec.FolderName, want)
	}
	if !strings.HasSuffix(rec.FolderName, " - 03") {
		t.Errorf("FolderName %q does not end with count 03", rec.FolderName)
	}

	provisionalDir := filepath.Join(env.target, "1205 - AL5015800 - Alejandro Dominguez-Maqueda - 99")
	if _, err := os.Stat(provisionalDir); !os.IsNotExist(err) {
		t.Error("provisional folder should have been renamed")
	}
}

func TestOrganize_CorruptArchive(t *testing.T) {
	env := newTestEnv(t)
	name := "AL5015800 - 7 - Broken Delivery.zip"
	env.writeFile(t, name, "definitely not a zip")
	if err := os.MkdirAll(env.target, 0755); err != nil {
		t.Fatalf("创建目标目录失败: %v", err)
	}

	rec := env.organizer(false).Organize(name)

	if !rec.Succeeded() {
		t.Fatalf("corrupt archive must still be organized, got %v", rec.Err)
	}
	if !errors.Is(rec.ExtractErr, internal.ErrCorruptArchive) {
		t.Errorf("ExtractErr = %v, want ErrCorruptArchive", rec.ExtractErr)
	}
	want := "0007 - AL5015800 - Broken Delivery - 00"
	if rec.FolderName != want {
		t.Errorf("FolderName = %q, want %q", rec.FolderName, want)
	}
	if _, err := os.Stat(filepath.Join(env.target, want, name)); err != nil {
		t.Errorf("archive copy should be kept in folder: %v", err)
	}
	if !strings.Contains(env.logs.String(), "error") {
		t.Errorf("expected an error to be logged, got %q", env.logs.String())
	}
}

func TestOrganize_ArchiveTraversalEntry(t *testing.T) {
	env := newTestEnv(t)
	name := "AL5015800 - 8 - Poisoned.zip"
	env.writeZip(t, name, map[string]string{
		"../../escape.pdf": "evil",
		"good.pdf":         "fine",
		"also-good.pdf":    "fine",
	})
	if err := os.MkdirAll(env.target, 0755); err != nil {
		t.Fatalf("创建目标目录失败: %v", err)
	}

	rec := env.organizer(false).Organize(name)

	if !rec.Succeeded() {
		t.Fatalf("Organize() failed: %v", rec.Err)
	}
	if rec.FolderName != "0008 - AL5015800 - Poisoned - 02" {
		t.Errorf("FolderName = %q", rec.FolderName)
	}
	if len(rec.Skipped) != 1 || rec.Skipped[0] != "../../escape.pdf" {
		t.Errorf("Skipped = %v", rec.Skipped)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(env.target), "escape.pdf")); !os.IsNotExist(err) {
		t.Error("traversal entry escaped the record folder")
	}
}

func TestOrganize_ArchiveEntryShadowsArchive(t *testing.T) {
	env := newTestEnv(t)
	name := "A1 - 1 - N.zip"
	env.writeZip(t, name, map[string]string{
		name:        "shadow",
		"one.pdf":   "1",
		"two.pdf":   "2",
		"three.pdf": "3",
	})
	if err := os.MkdirAll(env.target, 0755); err != nil {
		t.Fatalf("创建目标目录失败: %v", err)
	}

	rec := env.organizer(false).Organize(name)

	if !rec.Succeeded() {
		t.Fatalf("Organize() failed: %v", rec.Err)
	}
	if rec.ExtractErr != nil {
		t.Errorf("ExtractErr = %v, want nil", rec.ExtractErr)
	}
	if rec.FolderName != "0001 - A1 - N - 03" {
		t.Errorf("FolderName = %q, want count 03", rec.FolderName)
	}
	if len(rec.Skipped) != 1 || rec.Skipped[0] != name {
		t.Errorf("Skipped = %v", rec.Skipped)
	}

	data, err := os.ReadFile(filepath.Join(env.target, rec.FolderName, name))
	if err != nil {
		t.Fatalf("archive copy missing: %v", err)
	}
	if string(data) == "shadow" {
		t.Error("archive copy was overwritten by its own entry")
	}
}

func TestOrganize_Unparseable(t *testing.T) {
	env := newTestEnv(t)
	env.writeFile(t, "random notes.txt", "x")

	rec := env.organizer(false).Organize("random notes.txt")

	if rec.Succeeded() || rec.State != StateFailed {
		t.Fatalf("State = %v, want failed", rec.State)
	}
	if !errors.Is(rec.Err, internal.ErrUnparseableName) {
		t.Errorf("Err = %v, want ErrUnparseableName", rec.Err)
	}
	if _, err := os.Stat(env.target); !os.IsNotExist(err) {
		t.Error("nothing should be created for an unparseable file")
	}
}

func TestOrganize_FolderCollision(t *testing.T) {
	env := newTestEnv(t)
	name := "FILE - AL5017130 - 1 - Jonathan Abrego.pdf"
	env.writeFile(t, name, "new")

	existing := filepath.Join(env.target, "0001 - AL5017130 - Jonathan Abrego - 01")
	if err := os.MkdirAll(existing, 0755); err != nil {
		t.Fatalf("创建目录失败: %v", err)
	}
	if err := os.WriteFile(filepath.Join(existing, name), []byte("old"), 0644); err != nil {
		t.Fatalf("创建测试文件失败: %v", err)
	}

	rec := env.organizer(false).Organize(name)

	if rec.Succeeded() {
		t.Fatal("collision must be reported as a failure")
	}
	if !errors.Is(rec.Err, internal.ErrFilesystem) {
		t.Errorf("Err = %v, want ErrFilesystem", rec.Err)
	}
	data, _ := os.ReadFile(filepath.Join(existing, name))
	if string(data) != "old" {
		t.Errorf("existing file was overwritten: %q", data)
	}
}

func TestOrganize_RenameCollision(t *testing.T) {
	env := newTestEnv(t)
	name := "AL5015800 - 3 - Ana Lopez.zip"
	env.writeZip(t, name, map[string]string{"a.pdf": "1", "b.pdf": "2"})

	taken := filepath.Join(env.target, "0003 - AL5015800 - Ana Lopez - 02")
	if err := os.MkdirAll(taken, 0755); err != nil {
		t.Fatalf("创建目录失败: %v", err)
	}

	rec := env.organizer(false).Organize(name)

	if rec.Succeeded() {
		t.Fatal("rename collision must be reported as a failure")
	}
	if !errors.Is(rec.Err, internal.ErrFilesystem) {
		t.Errorf("Err = %v, want ErrFilesystem", rec.Err)
	}

	provisionalName := "0003 - AL5015800 - Ana Lopez - 99"
	if rec.FolderName != provisionalName {
		t.Errorf("FolderName = %q, want provisional %q", rec.FolderName, provisionalName)
	}
	files := listDir(t, filepath.Join(env.target, provisionalName))
	if len(files) != 3 {
		t.Errorf("provisional folder contents = %v, want archive plus 2 files", files)
	}
	if entries := listDir(t, taken); len(entries) != 0 {
		t.Errorf("existing folder was modified: %v", entries)
	}
}

func TestOrganize_DryRun(t *testing.T) {
	env := newTestEnv(t)
	name := "AL5015800 - 1205 - Alejandro.zip"
	env.writeZip(t, name, map[string]string{"a.pdf": "1"})

	rec := env.organizer(true).Organize(name)

	if !rec.Succeeded() {
		t.Fatalf("Organize() failed: %v", rec.Err)
	}
	if rec.ContentCount != internal.ProvisionalArchiveCount {
		t.Errorf("ContentCount = %d, want uncorrected %d", rec.ContentCount, internal.ProvisionalArchiveCount)
	}
	if rec.FolderName != "1205 - AL5015800 - Alejandro - 99" {
		t.Errorf("FolderName = %q", rec.FolderName)
	}
	if _, err := os.Stat(env.target); !os.IsNotExist(err) {
		t.Error("dry run must not create the target directory")
	}
}

func TestOrganize_VerifyCopyMismatch(t *testing.T) {
	env := newTestEnv(t)
	name := "FILE - AL5017130 - 2 - Tampered.pdf"
	env.writeFile(t, name, "original bytes")
	if err := os.MkdirAll(env.target, 0755); err != nil {
		t.Fatalf("创建目标目录失败: %v", err)
	}

	o := New(tamperFs{afero.NewOsFs()}, Options{
		SourceDir:    env.source,
		TargetDir:    env.target,
		VerifyCopies: true,
	}, zerolog.Nop())

	rec := o.Organize(name)
	if rec.Succeeded() {
		t.Fatal("tampered copy must fail verification")
	}
	if !errors.Is(rec.Err, internal.ErrFilesystem) {
		t.Errorf("Err = %v, want ErrFilesystem", rec.Err)
	}
	if rec.State != StateFailed {
		t.Errorf("State = %v, want failed", rec.State)
	}
}

func TestOrganize_MemMapFs(t *testing.T) {
	fs := afero.NewMemMapFs()
	name := "FILE - Q1 - 12 - Mem Test.pdf"
	if err := afero.WriteFile(fs, "/src/"+name, []byte("pdf"), 0644); err != nil {
		t.Fatalf("创建测试文件失败: %v", err)
	}
	if err := fs.MkdirAll("/dst", 0755); err != nil {
		t.Fatalf("创建目录失败: %v", err)
	}

	o := New(fs, Options{SourceDir: "/src", TargetDir: "/dst", VerifyCopies: true}, zerolog.Nop())
	rec := o.Organize(name)
	if !rec.Succeeded() {
		t.Fatalf("Organize() failed: %v", rec.Err)
	}

	ok, err := afero.Exists(fs, "/dst/0012 - Q1 - Mem Test - 01/"+name)
	if err != nil || !ok {
		t.Errorf("expected copied file in memory fs, err = %v", err)
	}
}

func TestState_String(t *testing.T) {
	states := map[State]string{
		StateClassified:    "classified",
		StateFolderCreated: "folder-created",
		StateContentPlaced: "content-placed",
		StateFinalized:     "finalized",
		StateFailed:        "failed",
		State(42):          "unknown",
	}
	for s, want := range states {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}
