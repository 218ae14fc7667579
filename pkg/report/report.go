package report

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/moyu-x/classified-records/internal"
	"github.com/moyu-x/classified-records/pkg/organizer"
)

type Report struct {
	RunID     string        `yaml:"run_id"`
	StartTime time.Time     `yaml:"start_time"`
	EndTime   time.Time     `yaml:"end_time"`
	DryRun    bool          `yaml:"dry_run"`
	Summary   Summary       `yaml:"summary"`
	Records   []RecordEntry `yaml:"records"`
}

type Summary struct {
	Processed   int                  `yaml:"processed"`
	Succeeded   int                  `yaml:"succeeded"`
	Failed      int                  `yaml:"failed"`
	Unparseable int                  `yaml:"unparseable"`
	Kinds       map[string]KindEntry `yaml:"kinds"`
}

type KindEntry struct {
	Records      int `yaml:"records"`
	ContentFiles int `yaml:"content_files"`
}

type RecordEntry struct {
	Source       string   `yaml:"source"`
	Kind         string   `yaml:"kind,omitempty"`
	Folder       string   `yaml:"folder,omitempty"`
	ContentCount int      `yaml:"content_count"`
	State        string   `yaml:"state"`
	Error        string   `yaml:"error,omitempty"`
	ExtractError string   `yaml:"extract_error,omitempty"`
	Skipped      []string `yaml:"skipped_entries,omitempty"`
}

func New(runID string, res *organizer.Result) *Report {
	r := &Report{
		RunID:     runID,
		StartTime: res.StartTime,
		EndTime:   res.EndTime,
		DryRun:    res.DryRun,
		Summary: Summary{
			Processed:   res.Stats.Processed,
			Succeeded:   res.Stats.Succeeded,
			Failed:      res.Stats.Failed,
			Unparseable: res.Stats.Unparseable,
			Kinds:       make(map[string]KindEntry, len(internal.Kinds)),
		},
	}

	for _, k := range internal.Kinds {
		ks := res.Stats.Kind(k)
		r.Summary.Kinds[string(k)] = KindEntry{Records: ks.Records, ContentFiles: ks.ContentFiles}
	}

	for _, rec := range res.Records {
		entry := RecordEntry{
			Source:       rec.Source,
			Kind:         string(rec.Kind),
			Folder:       rec.FolderName,
			ContentCount: rec.ContentCount,
			State:        rec.State.String(),
			Skipped:      rec.Skipped,
		}
		if rec.Err != nil {
			entry.Error = rec.Err.Error()
		}
		if rec.ExtractErr != nil {
			entry.ExtractError = rec.ExtractErr.Error()
		}
		r.Records = append(r.Records, entry)
	}

	return r
}

// Write 将报告以 YAML 格式写入文件
func (r *Report) Write(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("序列化报告失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("写入报告失败: %w", err)
	}
	return nil
}
