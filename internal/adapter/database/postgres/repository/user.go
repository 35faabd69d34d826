package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"userapp/internal/adapter/database/postgres"
	"userapp/internal/core/domain"
	"userapp/internal/core/port"
	tel "userapp/internal/core/telemetry"
)

const userColumns = "id, name, email, age, created_at, updated_at"

// uniqueViolation is the standard SQLSTATE for unique-constraint
// failures; checking the class keeps the mapping independent of the
// constraint name.
const uniqueViolation = "23505"

type UserRepository struct {
	db        *postgres.DB
	telemetry port.Telemetry
}

func NewUserRepository(db *postgres.DB, telemetry port.Telemetry) port.UserRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UserRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	ctx, span := r.telemetry.StartRepositorySpan(ctx, "List", "user", map[string]interface{}{
		"db.system": "postgresql",
		"db.table":  "users",
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := r.db.QueryBuilder.Select(userColumns).
		From("users").
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, err
	}

	r.telemetry.RecordRepositoryQuery(ctx, "List", "user", query, args)

	rows, err := r.db.Query(ctx, query, args...)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		r.telemetry.RecordRepositoryOperation(ctx, "List", "user", time.Since(startTime), err)
		return nil, err
	}

	defer rows.Close()

	users := []domain.User{}

	for rows.Next() {
		var user domain.User

		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Age, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}

		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	span.SetAttributes(map[string]interface{}{"db.rows_returned": len(users)})
	span.SetStatus("ok", "")
	r.telemetry.RecordRepositoryOperation(ctx, "List", "user", time.Since(startTime), nil)

	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (domain.User, error) {
	query, args, err := r.db.QueryBuilder.Select(userColumns).
		From("users").
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	var user domain.User

	err = r.db.QueryRow(ctx, query, args...).
		Scan(&user.ID, &user.Name, &user.Email, &user.Age, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}

		return domain.User{}, err
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	ctx, span := r.telemetry.StartRepositorySpan(ctx, "Create", "user", map[string]interface{}{
		"db.system":    "postgresql",
		"db.table":     "users",
		"db.operation": "INSERT",
		"user.email":   user.Email,
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := r.db.QueryBuilder.Insert("users").
		Columns("name", "email", "age", "created_at", "updated_at").
		Values(user.Name, user.Email, user.Age, user.CreatedAt, user.UpdatedAt).
		Suffix("RETURNING " + userColumns).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	r.telemetry.RecordRepositoryQuery(ctx, "Create", "user", query, args)

	var saved domain.User

	err = r.db.QueryRow(ctx, query, args...).
		Scan(&saved.ID, &saved.Name, &saved.Email, &saved.Age, &saved.CreatedAt, &saved.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			err = domain.ErrEmailTaken
		}

		span.SetStatus("error", err.Error())
		span.RecordError(err)
		r.telemetry.RecordRepositoryOperation(ctx, "Create", "user", time.Since(startTime), err)
		return domain.User{}, err
	}

	r.telemetry.RecordBusinessEvent(ctx, "created", "user", saved.ID, map[string]interface{}{
		"email": saved.Email,
	})

	span.SetStatus("ok", "")
	r.telemetry.RecordRepositoryOperation(ctx, "Create", "user", time.Since(startTime), nil)

	return saved, nil
}

func (r *UserRepository) Update(ctx context.Context, id int, patch domain.UserPatch, updatedAt time.Time) (domain.User, error) {
	ctx, span := r.telemetry.StartRepositorySpan(ctx, "Update", "user", map[string]interface{}{
		"db.system":    "postgresql",
		"db.table":     "users",
		"db.operation": "UPDATE",
		"user.id":      id,
	})
	defer span.End()

	startTime := time.Now()

	values := map[string]interface{}{
		"updated_at": updatedAt,
	}

	if patch.Name.Set {
		values["name"] = patch.Name.Value
	}

	if patch.Email.Set {
		values["email"] = patch.Email.Value
	}

	if patch.Age.Set {
		if patch.Age.Valid {
			values["age"] = patch.Age.Value
		} else {
			values["age"] = nil
		}
	}

	query, args, err := r.db.QueryBuilder.Update("users").
		SetMap(values).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + userColumns).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	r.telemetry.RecordRepositoryQuery(ctx, "Update", "user", query, args)

	var updated domain.User

	err = r.db.QueryRow(ctx, query, args...).
		Scan(&updated.ID, &updated.Name, &updated.Email, &updated.Age, &updated.CreatedAt, &updated.UpdatedAt)

	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			err = domain.ErrUserNotFound
		case isUniqueViolation(err):
			err = domain.ErrEmailTaken
		}

		span.SetStatus("error", err.Error())
		span.RecordError(err)
		r.telemetry.RecordRepositoryOperation(ctx, "Update", "user", time.Since(startTime), err)
		return domain.User{}, err
	}

	r.telemetry.RecordBusinessEvent(ctx, "updated", "user", updated.ID, map[string]interface{}{
		"updated_at": updated.UpdatedAt,
	})

	span.SetStatus("ok", "")
	r.telemetry.RecordRepositoryOperation(ctx, "Update", "user", time.Since(startTime), nil)

	return updated, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int) (domain.User, error) {
	ctx, span := r.telemetry.StartRepositorySpan(ctx, "Delete", "user", map[string]interface{}{
		"db.system":    "postgresql",
		"db.table":     "users",
		"db.operation": "DELETE",
		"user.id":      id,
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := r.db.QueryBuilder.Delete("users").
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + userColumns).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	r.telemetry.RecordRepositoryQuery(ctx, "Delete", "user", query, args)

	var deleted domain.User

	err = r.db.QueryRow(ctx, query, args...).
		Scan(&deleted.ID, &deleted.Name, &deleted.Email, &deleted.Age, &deleted.CreatedAt, &deleted.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = domain.ErrUserNotFound
		}

		span.SetStatus("error", err.Error())
		span.RecordError(err)
		r.telemetry.RecordRepositoryOperation(ctx, "Delete", "user", time.Since(startTime), err)
		return domain.User{}, err
	}

	r.telemetry.RecordBusinessEvent(ctx, "deleted", "user", deleted.ID, map[string]interface{}{
		"email": deleted.Email,
	})

	span.SetStatus("ok", "")
	r.telemetry.RecordRepositoryOperation(ctx, "Delete", "user", time.Since(startTime), nil)

	return deleted, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}

	return false
}
