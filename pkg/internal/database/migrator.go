package database

import (
	"git.solsynth.dev/hypernet/sociality/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Account{},
	&models.Relationship{},
	&models.Chat{},
	&models.Message{},
	&models.Post{},
	&models.Comment{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(
		append(
			AutoMaintainRange,
			&models.Like{},
		)...,
	); err != nil {
		return err
	}

	return nil
}
