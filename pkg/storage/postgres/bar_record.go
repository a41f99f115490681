package postgres

import "time"

// BarRecord represents a sealed bucket archived in the database.
type BarRecord struct {
	ID uint `gorm:"primaryKey"`

	// unique index
	Instrument string    `gorm:"type:text;not null;index:idx_bar_instrument;index:idx_instrument_timeframe_begin,unique"`
	Timeframe  string    `gorm:"type:varchar(10);not null;index:idx_instrument_timeframe_begin,unique"`
	Begin      time.Time `gorm:"not null;index:idx_instrument_timeframe_begin,unique"`

	End time.Time `gorm:"not null"`

	Open  float64 `gorm:"type:numeric;not null"`
	Close float64 `gorm:"type:numeric;not null"`
	High  float64 `gorm:"type:numeric;not null"`
	Low   float64 `gorm:"type:numeric;not null"`

	Volume float64 `gorm:"type:numeric;not null"`

	RecordedAt time.Time `gorm:"autoCreateTime"`
}

// TableName overrides the default table name for GORM.
func (BarRecord) TableName() string {
	return "bar_record"
}
