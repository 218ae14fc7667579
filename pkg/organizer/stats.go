package organizer

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/moyu-x/classified-records/internal"
)

type KindStats struct {
	Records      int
	ContentFiles int
}

// Stats 批处理统计，只由 Run 累加
type Stats struct {
	Processed   int
	Succeeded   int
	Failed      int
	Unparseable int
	Kinds       map[internal.Kind]*KindStats
}

func NewStats() Stats {
	kinds := make(map[internal.Kind]*KindStats, len(internal.Kinds))
	for _, k := range internal.Kinds {
		kinds[k] = &KindStats{}
	}
	return Stats{Kinds: kinds}
}

func (s *Stats) Add(rec Record) {
	s.Processed++

	if !rec.Succeeded() {
		s.Failed++
		if errors.Is(rec.Err, internal.ErrUnparseableName) {
			s.Unparseable++
		}
		return
	}

	s.Succeeded++
	ks, ok := s.Kinds[rec.Kind]
	if !ok {
		ks = &KindStats{}
		s.Kinds[rec.Kind] = ks
	}
	ks.Records++
	ks.ContentFiles += rec.ContentCount
}

func (s *Stats) Kind(k internal.Kind) KindStats {
	if ks, ok := s.Kinds[k]; ok {
		return *ks
	}
	return KindStats{}
}

func (s *Stats) String() string {
	var buf bytes.Buffer

	buf.WriteString("ORGANIZATION SUMMARY\n")
	buf.WriteString(fmt.Sprintf("Total files processed: %d\n", s.Processed))
	buf.WriteString(fmt.Sprintf("Successfully organized: %d\n", s.Succeeded))
	buf.WriteString(fmt.Sprintf("Errors: %d", s.Failed))
	if s.Unparseable > 0 {
		buf.WriteString(fmt.Sprintf(" (%d unparseable)", s.Unparseable))
	}
	buf.WriteString("\n\nFile type breakdown:\n")
	for _, k := range internal.Kinds {
		ks := s.Kind(k)
		buf.WriteString(fmt.Sprintf("  %s: %d (%d total files)\n", k.Label(), ks.Records, ks.ContentFiles))
	}

	return buf.String()
}
