package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/moyu-x/classified-records/pkg/listing"
)

const lastImportKey = "last_import"

type Employee struct {
	ID             string `gorm:"primaryKey"`
	EmployeeNumber int    `gorm:"not null"`
	EmployeeCode   string `gorm:"uniqueIndex;not null"`
	FullName       string `gorm:"not null"`
	FirstName      string
	LastName       string
	FileCount      int `gorm:"not null;default:0"`
	CreatedAt      time.Time
}

func (Employee) TableName() string {
	return "employees"
}

type EmployeeFile struct {
	ID           int64  `gorm:"primaryKey"`
	IndexNumber  string `gorm:"index;not null"`
	EmployeeCode string `gorm:"index;not null"`
	FileName     string `gorm:"not null"`
	FilePath     string `gorm:"not null"`
	CategoryCode string `gorm:"not null"`
	FileType     string
	IsEmpty      bool `gorm:"not null;default:false"`
	CreatedAt    time.Time
}

func (EmployeeFile) TableName() string {
	return "employee_files"
}

type SystemConfig struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (SystemConfig) TableName() string {
	return "system_config"
}

// Summary 导入后的统计
type Summary struct {
	Employees    int64
	Files        int64
	ContentFiles int64
	EmptyFiles   int64
	LastImport   string
}

type Database struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewDatabase(dbPath string, log zerolog.Logger) (*Database, error) {
	expandedPath, err := expandPath(dbPath)
	if err != nil {
		return nil, fmt.Errorf("扩展数据库路径失败: %w", err)
	}

	log.Info().Msgf("初始化数据库，路径: %s", expandedPath)

	if err := os.MkdirAll(filepath.Dir(expandedPath), 0755); err != nil {
		return nil, fmt.Errorf("创建数据库目录失败: %w", err)
	}

	dsn := expandedPath + "?_journal_mode=WAL"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("打开数据库连接失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取数据库连接失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("创建数据库表失败: %w", err)
	}

	log.Debug().Msg("数据库初始化完成")
	return &Database{db: db, log: log}, nil
}

func expandPath(path string) (string, error) {
	if len(path) >= 2 && path[0] == '~' && (path[1] == '/' || path[1] == '\\') {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

func createSchema(db *gorm.DB) error {
	return db.AutoMigrate(&Employee{}, &EmployeeFile{}, &SystemConfig{})
}

// Replace 在一个事务中用清单内容替换全部员工与文件记录
func (d *Database) Replace(l *listing.Listing) error {
	now := time.Now()

	err := d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&EmployeeFile{}).Error; err != nil {
			return fmt.Errorf("清空文件记录失败: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&Employee{}).Error; err != nil {
			return fmt.Errorf("清空员工记录失败: %w", err)
		}

		if len(l.Employees) > 0 {
			employees := make([]Employee, 0, len(l.Employees))
			for _, e := range l.Employees {
				employees = append(employees, Employee{
					ID:             fmt.Sprintf("emp_%04d", e.Number),
					EmployeeNumber: e.Number,
					EmployeeCode:   e.Code,
					FullName:       e.FullName,
					FirstName:      e.FirstName,
					LastName:       e.LastName,
					FileCount:      e.FileCount,
				})
			}
			if err := tx.CreateInBatches(employees, 100).Error; err != nil {
				return fmt.Errorf("插入员工记录失败: %w", err)
			}
		}

		if len(l.Files) > 0 {
			files := make([]EmployeeFile, 0, len(l.Files))
			for _, f := range l.Files {
				files = append(files, EmployeeFile{
					IndexNumber:  f.IndexNumber,
					EmployeeCode: f.EmployeeCode,
					FileName:     f.FileName,
					FilePath:     f.FilePath,
					CategoryCode: f.CategoryCode,
					FileType:     f.FileType,
					IsEmpty:      f.IsEmpty,
				})
			}
			if err := tx.CreateInBatches(files, 100).Error; err != nil {
				return fmt.Errorf("插入文件记录失败: %w", err)
			}
		}

		cfg := SystemConfig{Key: lastImportKey, Value: now.Format(time.RFC3339)}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&cfg).Error; err != nil {
			return fmt.Errorf("更新导入时间失败: %w", err)
		}

		return nil
	})
	if err != nil {
		d.log.Error().Err(err).Msg("导入清单失败")
		return err
	}

	d.log.Info().
		Int("employees", len(l.Employees)).
		Int("files", len(l.Files)).
		Msg("导入清单完成")
	return nil
}

func (d *Database) Summary() (*Summary, error) {
	s := &Summary{}

	if err := d.db.Model(&Employee{}).Count(&s.Employees).Error; err != nil {
		return nil, fmt.Errorf("统计员工失败: %w", err)
	}
	if err := d.db.Model(&EmployeeFile{}).Count(&s.Files).Error; err != nil {
		return nil, fmt.Errorf("统计文件失败: %w", err)
	}
	if err := d.db.Model(&EmployeeFile{}).Where("is_empty = ?", true).Count(&s.EmptyFiles).Error; err != nil {
		return nil, fmt.Errorf("统计占位文件失败: %w", err)
	}
	s.ContentFiles = s.Files - s.EmptyFiles

	var cfg SystemConfig
	err := d.db.Where(&SystemConfig{Key: lastImportKey}).Limit(1).Find(&cfg).Error
	if err != nil {
		return nil, fmt.Errorf("查询导入时间失败: %w", err)
	}
	s.LastImport = cfg.Value

	return s, nil
}

// FilesFor 返回某个员工的文件记录
func (d *Database) FilesFor(code string) ([]EmployeeFile, error) {
	var files []EmployeeFile
	if err := d.db.Where("employee_code = ?", code).Order("id").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("查询文件记录失败: %w", err)
	}
	return files, nil
}

func (d *Database) Close() error {
	d.log.Debug().Msg("关闭数据库连接")
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("获取数据库连接失败: %w", err)
	}
	return sqlDB.Close()
}
