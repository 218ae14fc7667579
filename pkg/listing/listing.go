package listing

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// 行格式: <序号> - <编码> - <姓名> - <文件数>[/<文件名>]
var linePattern = regexp.MustCompile(`^(\d+) - ([A-Z0-9]+) - (.+?) - (\d+)(?:/(.+))?$`)

const emptyPrefix = "EMPTY -"

type Employee struct {
	Number    int
	Code      string
	FullName  string
	FirstName string
	LastName  string
	FileCount int
}

type File struct {
	IndexNumber  string
	EmployeeCode string
	FileName     string
	FilePath     string
	CategoryCode string
	FileType     string
	IsEmpty      bool
}

// Issue 无法解析的行
type Issue struct {
	Line int
	Text string
}

type Listing struct {
	Employees []Employee
	Files     []File
	Issues    []Issue
	Lines     int
}

// Parse 解析文件清单，无法解析的行记录为 Issue，不中断解析
func Parse(r io.Reader) (*Listing, error) {
	l := &Listing{}
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		l.Lines++

		m := linePattern.FindStringSubmatch(line)
		if m == nil {
			l.Issues = append(l.Issues, Issue{Line: lineNum, Text: line})
			continue
		}

		number, err := strconv.Atoi(m[1])
		if err != nil {
			l.Issues = append(l.Issues, Issue{Line: lineNum, Text: line})
			continue
		}
		count, err := strconv.Atoi(m[4])
		if err != nil {
			l.Issues = append(l.Issues, Issue{Line: lineNum, Text: line})
			continue
		}

		code, name, fileName := m[2], m[3], m[5]

		if !seen[code] {
			seen[code] = true
			first, last := splitName(name)
			l.Employees = append(l.Employees, Employee{
				Number:    number,
				Code:      code,
				FullName:  name,
				FirstName: first,
				LastName:  last,
				FileCount: count,
			})
		}

		if fileName != "" {
			l.Files = append(l.Files, newFile(m[1], code, count, fileName))
		}
	}

	if err := scanner.Err(); err != nil {
		return l, fmt.Errorf("读取清单失败: %w", err)
	}

	return l, nil
}

func newFile(number, code string, count int, fileName string) File {
	isEmpty := strings.HasPrefix(fileName, emptyPrefix)

	category := "04"
	if isEmpty {
		category = "00"
	}

	index := number
	if len(index) < 4 {
		index = strings.Repeat("0", 4-len(index)) + index
	}

	fileType := ""
	if i := strings.LastIndex(fileName, "."); i >= 0 {
		fileType = strings.ToLower(fileName[i:])
	}

	return File{
		IndexNumber:  index,
		EmployeeCode: code,
		FileName:     fileName,
		FilePath:     fmt.Sprintf("%02d/%s", count, fileName),
		CategoryCode: category,
		FileType:     fileType,
		IsEmpty:      isEmpty,
	}
}

// splitName 第一个词作为名，其余作为姓
func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return name, ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// ContentFiles 返回非占位文件数
func (l *Listing) ContentFiles() int {
	n := 0
	for _, f := range l.Files {
		if !f.IsEmpty {
			n++
		}
	}
	return n
}
