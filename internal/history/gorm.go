package history

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Suraj-070/worduel/internal/match"
)

type MatchRecord struct {
	ID          uint   `gorm:"primaryKey"`
	RoomID      string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Private     bool
	Outcome     string `gorm:"type:varchar(32);not null"`
	WinnerID    string `gorm:"type:varchar(64)"`
	Rounds      int
	SuddenDeath bool
	EndedAt     time.Time      `gorm:"index"`
	Players     []PlayerRecord `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
}

type PlayerRecord struct {
	ID          uint   `gorm:"primaryKey"`
	MatchID     uint   `gorm:"index;not null"`
	PlayerID    string `gorm:"type:varchar(64);not null"`
	Username    string `gorm:"type:varchar(32);index"`
	DisplayName string `gorm:"type:varchar(32)"`
	Score       int
	Online      bool
}

// Postgres persists matches through gorm.
type Postgres struct {
	db  *gorm.DB
	log *zap.Logger
}

func OpenPostgres(dsn string, log *zap.Logger) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&MatchRecord{}, &PlayerRecord{}); err != nil {
		return nil, fmt.Errorf("migrate history tables: %w", err)
	}
	log.Info("match history backed by postgres")
	return &Postgres{db: db, log: log}, nil
}

func (p *Postgres) Record(ctx context.Context, res match.Result) error {
	rec := toRecord(Summarize(res))
	if err := p.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("record match %s: %w", res.RoomID, err)
	}
	return nil
}

func (p *Postgres) Recent(ctx context.Context, limit int) ([]Summary, error) {
	var recs []MatchRecord
	err := p.db.WithContext(ctx).
		Preload("Players", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("ended_at desc").
		Limit(ClampLimit(limit)).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("load recent matches: %w", err)
	}
	return lo.Map(recs, func(r MatchRecord, _ int) Summary { return fromRecord(r) }), nil
}

func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRecord(s Summary) MatchRecord {
	return MatchRecord{
		RoomID:      s.RoomID,
		Private:     s.Private,
		Outcome:     s.Outcome,
		WinnerID:    s.WinnerID,
		Rounds:      s.Rounds,
		SuddenDeath: s.SuddenDeath,
		EndedAt:     s.EndedAt,
		Players: lo.Map(s.Players, func(p PlayerScore, _ int) PlayerRecord {
			return PlayerRecord{
				PlayerID:    p.ID,
				Username:    p.Username,
				DisplayName: p.DisplayName,
				Score:       p.Score,
				Online:      p.Online,
			}
		}),
	}
}

func fromRecord(r MatchRecord) Summary {
	return Summary{
		RoomID:      r.RoomID,
		Private:     r.Private,
		Outcome:     r.Outcome,
		WinnerID:    r.WinnerID,
		Rounds:      r.Rounds,
		SuddenDeath: r.SuddenDeath,
		EndedAt:     r.EndedAt.UTC(),
		Players: lo.Map(r.Players, func(p PlayerRecord, _ int) PlayerScore {
			return PlayerScore{
				ID:          p.PlayerID,
				Username:    p.Username,
				DisplayName: p.DisplayName,
				Score:       p.Score,
				Online:      p.Online,
			}
		}),
	}
}
