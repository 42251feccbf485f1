package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/admin-dashboard/internal/models"
)

const profileColumns = `id, name, email, age, gender, goal, hearus, is_special, role, created_at`

// scanProfile читает строку профиля с опциональными полями анкеты.
func scanProfile(row interface{ Scan(...any) error }) (*models.Profile, error) {
	var p models.Profile
	var age sql.NullInt64
	var gender, goal, hearUs sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.Email, &age, &gender, &goal, &hearUs,
		&p.IsSpecial, &p.Role, &p.CreatedAt); err != nil {
		return nil, err
	}
	if age.Valid {
		v := int(age.Int64)
		p.Age = &v
	}
	if gender.Valid {
		p.Gender = &gender.String
	}
	if goal.Valid {
		p.Goal = &goal.String
	}
	if hearUs.Valid {
		p.HearUs = &hearUs.String
	}
	return &p, nil
}

// CountProfiles возвращает общее количество профилей.
func (s *Storage) CountProfiles(ctx context.Context) (int, error) {
	const op = "storage.CountProfiles"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM profiles`
	if err := s.DB.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CountProfilesCreatedSince возвращает количество профилей, созданных
// начиная с указанного момента.
func (s *Storage) CountProfilesCreatedSince(ctx context.Context, since time.Time) (int, error) {
	const op = "storage.CountProfilesCreatedSince"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM profiles WHERE created_at >= $1`
	if err := s.DB.QueryRowContext(ctx, query, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CountProfilesMatching возвращает количество профилей, подходящих под
// поисковую подстроку по имени или почте без учёта регистра.
func (s *Storage) CountProfilesMatching(ctx context.Context, search string) (int, error) {
	const op = "storage.CountProfilesMatching"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM profiles
			  WHERE name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'`
	if err := s.DB.QueryRowContext(ctx, query, search).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ListProfilesPage возвращает страницу профилей по поисковой подстроке,
// новые записи первыми.
func (s *Storage) ListProfilesPage(ctx context.Context, search string, limit, offset int) ([]*models.Profile, error) {
	const op = "storage.ListProfilesPage"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + profileColumns + `
			  FROM profiles
			  WHERE name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllProfiles возвращает все профили для агрегации на странице аналитики.
func (s *Storage) ListAllProfiles(ctx context.Context) ([]*models.Profile, error) {
	const op = "storage.ListAllProfiles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + profileColumns + ` FROM profiles`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetProfileByEmail возвращает профиль по почте. Почта — внешний ключ
// для связи с подписками.
func (s *Storage) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	const op = "storage.GetProfileByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`
	p, err := scanProfile(s.DB.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetProfileByID возвращает профиль по идентификатору.
func (s *Storage) GetProfileByID(ctx context.Context, id string) (*models.Profile, error) {
	const op = "storage.GetProfileByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	p, err := scanProfile(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// UpdateProfile перезаписывает редактируемые поля профиля и возвращает
// количество изменённых строк.
func (s *Storage) UpdateProfile(ctx context.Context, id string, req models.DummyProfileEdit) (int, error) {
	const op = "storage.UpdateProfile"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE profiles
			  SET name = $1, email = $2, age = $3, gender = $4, goal = $5, is_special = $6
			  WHERE id = $7`
	result, err := s.DB.ExecContext(ctx, query,
		req.Name, req.Email, req.Age, req.Gender, req.Goal, req.IsSpecial, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// DeleteProfile удаляет профиль по идентификатору и возвращает количество
// удалённых строк.
func (s *Storage) DeleteProfile(ctx context.Context, id string) (int, error) {
	const op = "storage.DeleteProfile"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM profiles WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
