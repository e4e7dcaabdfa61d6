package db

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"dayzone/internal/model"
)

// Models lists every table owned by the service, in creation order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Stalker{},
		&model.Wanted{},
		&model.LedgerEntry{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops every table. Used by RESET_DB and tests.
func Reset(db *gorm.DB) error {
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(models[i]); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}

// SeedOptions controls the default administrator account.
type SeedOptions struct {
	AdminUsername string
	AdminPassword string
	BcryptCost    int
}

// SeedResult counts the rows inserted by Seed.
type SeedResult struct {
	Users    int64
	Stalkers int64
	Wanted   int64
}

var sampleStalkers = []model.Stalker{
	{Callsign: "Снайпер", FullName: "Иванов Иван Иванович", FaceID: "ST001", Role: model.RoleFreedom, Note: "Опытный сталкер, специализируется на дальних переходах"},
	{Callsign: "Волк", FullName: "Петров Петр Петрович", FaceID: "ST002", Role: model.RoleDuty, Note: "Бывший военный, знает зону как свои пять пальцев"},
	{Callsign: "Тень", FullName: "Сидоров Сидор Сидорович", FaceID: "ST003", Role: model.RoleNeutral, Note: "Мастер скрытности, работает в одиночку"},
	{Callsign: "Охотник", FullName: "Козлов Козел Козлович", FaceID: "ST004", Role: model.RoleMercenary, Note: "Специалист по артефактам, имеет связи с учеными"},
}

var sampleWanted = []model.Wanted{
	{Callsign: "Бандит", FullName: "Криминальный Криминал Криминалович", FaceID: "W001", Role: model.RoleBandit, Reward: decimal.NewFromInt(50000), LastSeen: "Территория бандитов", Reason: "Нападение на торговцев"},
	{Callsign: "Предатель", FullName: "Изменник Измен Изменович", FaceID: "W002", Role: model.RoleNeutral, Reward: decimal.NewFromInt(25000), LastSeen: "Бар \"100 рентген\"", Reason: "Кража артефактов"},
	{Callsign: "Убийца", FullName: "Хладнокровный Холод Холодович", FaceID: "W003", Role: model.RoleMercenary, Reward: decimal.NewFromInt(75000), LastSeen: "Заброшенная лаборатория", Reason: "Убийство сталкеров"},
	{Callsign: "Шпион", FullName: "Скрытный Секрет Секретович", FaceID: "W004", Role: model.RoleDuty, Reward: decimal.NewFromInt(30000), LastSeen: "Военная база", Reason: "Шпионаж в пользу Свободы"},
}

// Seed inserts the default administrator plus sample operatives and wanted
// records in a single transaction. Rows whose unique key already exists are
// left untouched, so Seed can be re-run.
func Seed(ctx context.Context, db *gorm.DB, opts SeedOptions) (SeedResult, error) {
	var res SeedResult

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), opts.BcryptCost)
	if err != nil {
		return res, fmt.Errorf("hash admin password: %w", err)
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := insertMissing(tx, &model.User{}, "username", opts.AdminUsername, &model.User{
			Username:     opts.AdminUsername,
			PasswordHash: string(hash),
			Role:         model.RoleAdmin,
		})
		if err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		if ok {
			res.Users++
		}

		for i := range sampleStalkers {
			s := sampleStalkers[i]
			ok, err := insertMissing(tx, &model.Stalker{}, "face_id", s.FaceID, &s)
			if err != nil {
				return fmt.Errorf("seed stalker %s: %w", s.FaceID, err)
			}
			if ok {
				res.Stalkers++
			}
		}

		for i := range sampleWanted {
			w := sampleWanted[i]
			ok, err := insertMissing(tx, &model.Wanted{}, "face_id", w.FaceID, &w)
			if err != nil {
				return fmt.Errorf("seed wanted %s: %w", w.FaceID, err)
			}
			if ok {
				res.Wanted++
			}
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}
	return res, nil
}

// insertMissing creates row unless a row with column = key already exists.
func insertMissing(tx *gorm.DB, table interface{}, column, key string, row interface{}) (bool, error) {
	var count int64
	if err := tx.Model(table).Where(column+" = ?", key).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if err := tx.Create(row).Error; err != nil {
		return false, err
	}
	return true, nil
}
