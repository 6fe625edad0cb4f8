package availability

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type dayScheduleRepoPG struct{ pool *pgxpool.Pool }

func NewDayScheduleRepoPG(pool *pgxpool.Pool) DayScheduleRepository {
	return &dayScheduleRepoPG{pool: pool}
}

const dayCols = `id, doctor_id, weekday, enabled, start_time, end_time, created_at, updated_at`

func (r *dayScheduleRepoPG) scanDay(row pgx.Row) (*DaySchedule, error) {
	var d DaySchedule
	err := row.Scan(&d.ID, &d.DoctorID, &d.Weekday, &d.Enabled,
		&d.StartTime, &d.EndTime, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *dayScheduleRepoPG) GetWeek(ctx context.Context, doctorID string) ([]*DaySchedule, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+dayCols+` FROM day_schedule WHERE doctor_id = $1 ORDER BY weekday`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*DaySchedule
	for rows.Next() {
		d, err := r.scanDay(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (r *dayScheduleRepoPG) GetDay(ctx context.Context, doctorID string, weekday time.Weekday) (*DaySchedule, error) {
	d, err := r.scanDay(r.pool.QueryRow(ctx,
		`SELECT `+dayCols+` FROM day_schedule WHERE doctor_id = $1 AND weekday = $2`, doctorID, weekday))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDayNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *dayScheduleRepoPG) Upsert(ctx context.Context, d *DaySchedule) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO day_schedule (id, doctor_id, weekday, enabled, start_time, end_time)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (doctor_id, weekday)
		DO UPDATE SET enabled=$4, start_time=$5, end_time=$6, updated_at=NOW()`,
		d.ID, d.DoctorID, d.Weekday, d.Enabled, d.StartTime, d.EndTime)
	return err
}
