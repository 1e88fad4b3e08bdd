// Package adapters provides persistence implementations for the history feature.
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"arb_backend/internal/feature/history/domain"
	"arb_backend/internal/feature/history/domain/entity"
	"arb_backend/internal/feature/history/usecase"
)

type spreadGorm struct {
	db *gorm.DB
}

var _ usecase.SpreadRepository = (*spreadGorm)(nil)

// NewSpreadRepository creates the gorm-backed daily spread repository.
func NewSpreadRepository(db *gorm.DB) *spreadGorm {
	return &spreadGorm{db: db}
}

// DailySpreadModel is the persisted shape of a DailySpreadRecord,
// keyed uniquely by (date, route).
type DailySpreadModel struct {
	ID    uint      `gorm:"primaryKey"`
	Date  time.Time `gorm:"not null;uniqueIndex:spread_date_route,priority:1"`
	Route string    `gorm:"size:64;not null;uniqueIndex:spread_date_route,priority:2"`

	BuyExchange   string  `gorm:"size:32;not null"`
	SellExchange  string  `gorm:"size:32;not null"`
	HighestSpread float64 `gorm:"not null"`
	LowestSpread  float64 `gorm:"not null"`
	AverageSpread float64 `gorm:"not null"`
	DataPoints    int64   `gorm:"not null;default:1"`
}

func (DailySpreadModel) TableName() string {
	return "daily_spreads"
}

func toModel(e entity.DailySpreadRecord) DailySpreadModel {
	return DailySpreadModel{
		Date:          e.Date,
		Route:         e.Route,
		BuyExchange:   e.BuyExchange,
		SellExchange:  e.SellExchange,
		HighestSpread: e.HighestSpread,
		LowestSpread:  e.LowestSpread,
		AverageSpread: e.AverageSpread,
		DataPoints:    e.DataPoints,
	}
}

func toEntity(m DailySpreadModel) entity.DailySpreadRecord {
	return entity.DailySpreadRecord{
		Date:          m.Date,
		Route:         m.Route,
		BuyExchange:   m.BuyExchange,
		SellExchange:  m.SellExchange,
		HighestSpread: m.HighestSpread,
		LowestSpread:  m.LowestSpread,
		AverageSpread: m.AverageSpread,
		DataPoints:    m.DataPoints,
	}
}

func (r *spreadGorm) FindByDateRoute(ctx context.Context, date time.Time, route string) (entity.DailySpreadRecord, error) {
	var m DailySpreadModel
	err := r.db.WithContext(ctx).
		Where("date = ? AND route = ?", entity.Day(date), route).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.DailySpreadRecord{}, domain.ErrRecordNotFound
	}
	if err != nil {
		return entity.DailySpreadRecord{}, err
	}
	return toEntity(m), nil
}

func (r *spreadGorm) Save(ctx context.Context, rec entity.DailySpreadRecord) error {
	m := toModel(rec)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}, {Name: "route"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"buy_exchange", "sell_exchange",
			"highest_spread", "lowest_spread", "average_spread", "data_points",
		}),
	}).Create(&m).Error
}

func (r *spreadGorm) FindRange(ctx context.Context, from, to time.Time) ([]entity.DailySpreadRecord, error) {
	var rows []DailySpreadModel
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", entity.Day(from), entity.Day(to)).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.DailySpreadRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}
