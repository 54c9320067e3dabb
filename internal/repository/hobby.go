package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/suu3play/hobby-weather-sub000/internal/database"
	"github.com/suu3play/hobby-weather-sub000/internal/models"
)

type HobbyRepository struct {
	db *database.DB
}

func NewHobbyRepository(db *database.DB) *HobbyRepository {
	return &HobbyRepository{db: db}
}

func (r *HobbyRepository) Create(ctx context.Context, hobby *models.Hobby) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO hobbies (name, active, indoor, preferred_weather, min_temp, max_temp)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		hobby.Name, hobby.Active, hobby.Indoor, hobby.PreferredWeather, hobby.MinTemp, hobby.MaxTemp,
	).Scan(&hobby.ID, &hobby.CreatedAt)
}

func (r *HobbyRepository) GetActive(ctx context.Context) ([]*models.Hobby, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, name, active, indoor, preferred_weather, min_temp, max_temp, created_at
		 FROM hobbies WHERE active = true ORDER BY name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHobbies(rows)
}

func (r *HobbyRepository) GetAll(ctx context.Context) ([]*models.Hobby, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, name, active, indoor, preferred_weather, min_temp, max_temp, created_at
		 FROM hobbies ORDER BY name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanHobbies(rows)
}

func (r *HobbyRepository) Update(ctx context.Context, hobby *models.Hobby) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE hobbies SET name = $1, active = $2, indoor = $3, preferred_weather = $4, min_temp = $5, max_temp = $6
		 WHERE id = $7`,
		hobby.Name, hobby.Active, hobby.Indoor, hobby.PreferredWeather, hobby.MinTemp, hobby.MaxTemp, hobby.ID,
	)
	return err
}

func (r *HobbyRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM hobbies WHERE id = $1`,
		id,
	)
	return err
}

func scanHobbies(rows pgx.Rows) ([]*models.Hobby, error) {
	var hobbies []*models.Hobby
	for rows.Next() {
		hobby := &models.Hobby{}
		if err := rows.Scan(&hobby.ID, &hobby.Name, &hobby.Active, &hobby.Indoor,
			&hobby.PreferredWeather, &hobby.MinTemp, &hobby.MaxTemp, &hobby.CreatedAt); err != nil {
			return nil, err
		}
		hobbies = append(hobbies, hobby)
	}
	return hobbies, rows.Err()
}
