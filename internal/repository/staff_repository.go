package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/salon-admin-service/internal/domain"
)

// StaffRepository handles persistence for staff user documents.
type StaffRepository interface {
	Create(ctx context.Context, staff *domain.StaffUser) error
	Update(ctx context.Context, staff *domain.StaffUser) error
	GetByID(ctx context.Context, id string) (*domain.StaffUser, error)
	GetByPhone(ctx context.Context, phoneNumber string) (*domain.StaffUser, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.StaffUser, error)
	Delete(ctx context.Context, id string) error
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

const staffColumns = `id, phone_number, username, role, is_verified, is_on_holiday,
        working_hours, holiday_dates, services, feedback, rating, otp_expiry,
        created_at, updated_at`

// Create inserts the record. The partial unique index on verified phone
// numbers makes this a conditional insert: a second verified record for the
// same phone fails with a unique violation.
func (r *staffRepository) Create(ctx context.Context, staff *domain.StaffUser) error {
	const query = `
        INSERT INTO staff_users
            (phone_number, username, role, is_verified, is_on_holiday,
             working_hours, holiday_dates, services, feedback, rating, otp_expiry)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		staff.PhoneNumber,
		staff.Username,
		staff.Role,
		staff.IsVerified,
		staff.IsOnHoliday,
		staff.WorkingHours,
		staff.HolidayDates,
		staff.Services,
		staff.Feedback,
		staff.Rating,
		staff.OTPExpiry,
	).Scan(&staff.ID, &staff.CreatedAt, &staff.UpdatedAt)
}

func (r *staffRepository) Update(ctx context.Context, staff *domain.StaffUser) error {
	const query = `
        UPDATE staff_users
        SET phone_number=$1, username=$2, role=$3, is_verified=$4, is_on_holiday=$5,
            working_hours=$6, holiday_dates=$7, services=$8, feedback=$9, rating=$10,
            otp_expiry=$11, updated_at=NOW()
        WHERE id=$12`

	cmd, err := r.pool.Exec(ctx, query,
		staff.PhoneNumber,
		staff.Username,
		staff.Role,
		staff.IsVerified,
		staff.IsOnHoliday,
		staff.WorkingHours,
		staff.HolidayDates,
		staff.Services,
		staff.Feedback,
		staff.Rating,
		staff.OTPExpiry,
		staff.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.StaffUser, error) {
	const query = `SELECT ` + staffColumns + ` FROM staff_users WHERE id=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetByPhone returns the most recent record for a phone number, verified
// records first so the duplicate check sees the binding one.
func (r *staffRepository) GetByPhone(ctx context.Context, phoneNumber string) (*domain.StaffUser, error) {
	const query = `SELECT ` + staffColumns + `
        FROM staff_users WHERE phone_number=$1
        ORDER BY is_verified DESC, created_at DESC
        LIMIT 1`
	return r.scanOne(r.pool.QueryRow(ctx, query, phoneNumber))
}

func (r *staffRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.StaffUser, error) {
	const query = `SELECT ` + staffColumns + ` FROM staff_users WHERE role=$1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StaffUser
	for rows.Next() {
		var staff domain.StaffUser
		if err := scanStaff(rows, &staff); err != nil {
			return nil, err
		}
		result = append(result, staff)
	}
	return result, rows.Err()
}

func (r *staffRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM staff_users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *staffRepository) scanOne(row pgx.Row) (*domain.StaffUser, error) {
	var staff domain.StaffUser
	if err := scanStaff(row, &staff); err != nil {
		return nil, err
	}
	return &staff, nil
}

func scanStaff(row pgx.Row, staff *domain.StaffUser) error {
	return row.Scan(
		&staff.ID,
		&staff.PhoneNumber,
		&staff.Username,
		&staff.Role,
		&staff.IsVerified,
		&staff.IsOnHoliday,
		&staff.WorkingHours,
		&staff.HolidayDates,
		&staff.Services,
		&staff.Feedback,
		&staff.Rating,
		&staff.OTPExpiry,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	)
}
