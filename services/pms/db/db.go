package db

import (
	"github.com/kaytu-io/kaytu-pms/services/pms/model"
	"gorm.io/gorm"
)

type Database struct {
	Orm *gorm.DB
}

func NewDatabase(orm *gorm.DB) Database {
	return Database{
		Orm: orm,
	}
}

func (db Database) Initialize() error {
	err := db.Orm.AutoMigrate(
		&model.Integration{},
	)
	if err != nil {
		return err
	}

	return nil
}
