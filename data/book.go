package data

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/senomas/gqlbooks/graph/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var bookColumns = []string{"title", "author", "price"}

// Gorm reads books from the "books" table. Rows are returned in storage
// order.
type Gorm struct {
	DB *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{DB: db}
}

func (g *Gorm) Books(ctx context.Context) ([]*model.Book, error) {
	var books []*model.Book
	if result := g.DB.WithContext(ctx).Select(bookColumns).Order("id").Find(&books); result.Error != nil {
		return nil, errors.Wrap(result.Error, "find books")
	}
	return books, nil
}

// Open connects to postgres. SQL statements are logged through log when
// verbose is set.
func Open(dsn string, log zerolog.Logger, verbose bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: dsn}), &gorm.Config{Logger: NewLogger(log, verbose)})
	if err != nil {
		return nil, errors.Wrap(err, "open postgres")
	}
	return db, nil
}

func NewLogger(log zerolog.Logger, verbose bool) logger.Interface {
	level := logger.Silent
	if verbose {
		level = logger.Info
	}
	return logger.New(&log, logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

func Migrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(&model.Book{}), "migrate books")
}

// Populate inserts books when the table is empty.
func Populate(tx *gorm.DB, books []model.Book) error {
	var count int64
	if result := tx.Model(&model.Book{}).Count(&count); result.Error != nil {
		return errors.Wrap(result.Error, "count books")
	}
	if count > 0 {
		return nil
	}
	for i := range books {
		book := books[i]
		book.ID = 0
		if result := tx.Create(&book); result.Error != nil {
			return errors.Wrapf(result.Error, "create book %q", book.Title)
		}
	}
	return nil
}

// Setup migrates the schema, then seeds it with books in a transaction so a
// failed insert leaves the table empty.
func Setup(db *gorm.DB, books []model.Book) error {
	if err := Migrate(db); err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		return Populate(tx, books)
	})
}
