package postgres

import (
	"context"
	"fmt"
	"time"

	"barcollector/internal/memorystore"

	"gorm.io/gorm/clause"
)

// InsertBar archives one sealed bucket. Duplicate bars (same instrument,
// timeframe, begin) are skipped at the database level.
func (p *PostgresClient) InsertBar(ctx context.Context, record *BarRecord) error {
	tx := p.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "instrument"},
			{Name: "timeframe"},
			{Name: "begin"},
		},
		DoNothing: true,
	}).Create(record)

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return fmt.Errorf(
			"duplicate bar skipped: instrument=%s timeframe=%s begin=%s",
			record.Instrument,
			record.Timeframe,
			record.Begin.Format(time.RFC3339),
		)
	}

	return nil
}

func (p *PostgresClient) GetBar(ctx context.Context, instrument, timeframe string, begin time.Time) (*BarRecord, error) {
	var bar BarRecord
	err := p.DB.WithContext(ctx).
		Where("instrument = ? AND timeframe = ? AND begin = ?", instrument, timeframe, begin).
		First(&bar).Error

	if err != nil {
		return nil, err
	}
	return &bar, nil
}

func (p *PostgresClient) DeleteOldBars(ctx context.Context, before time.Time) error {
	return p.DB.WithContext(ctx).
		Where("begin < ?", before).
		Delete(&BarRecord{}).Error
}

// ToBarRecord converts a sealed bucket into a BarRecord for DB insertion.
func ToBarRecord(sb memorystore.SealedBar) *BarRecord {
	return &BarRecord{
		Instrument: sb.Instrument,
		Timeframe:  string(sb.Timeframe),
		Begin:      sb.Bar.Begin,
		End:        sb.Bar.End,
		Open:       sb.Bar.Open,
		Close:      sb.Bar.Close,
		High:       sb.Bar.High,
		Low:        sb.Bar.Low,
		Volume:     sb.Bar.Volume,
	}
}
