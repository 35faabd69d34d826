package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"

	"userapp/internal/adapter/database/sqlite"
	"userapp/internal/core/domain"
	"userapp/internal/core/port"
	tel "userapp/internal/core/telemetry"
)

const userColumns = "id, name, email, age, created_at, updated_at"

type UserRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewUserRepository(db *sqlite.DB, telemetry port.Telemetry) port.UserRepository {
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
		"db.system": "sqlite",
		"db.table":  "users",
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := r.db.QueryBuilder.Select(userColumns).
		From("users").
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		return nil, err
	}

	r.telemetry.RecordRepositoryQuery(ctx, "List", "user", query, args)

	rows, err := r.db.QueryContext(ctx, query, args...)

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

		if err := scanUser(rows, &user); err != nil {
			span.SetStatus("error", err.Error())
			span.RecordError(err)
			return nil, err
		}

		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
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

	row := r.db.QueryRowContext(ctx, query, args...)

	var user domain.User

	if err := scanUserRow(row, &user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}

		return domain.User{}, err
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	ctx, span := r.telemetry.StartRepositorySpan(ctx, "Create", "user", map[string]interface{}{
		"db.system":    "sqlite",
		"db.table":     "users",
		"db.operation": "INSERT",
		"user.email":   user.Email,
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := r.db.QueryBuilder.Insert("users").
		Columns("name", "email", "age", "created_at", "updated_at").
		Values(user.Name, user.Email, user.Age, user.CreatedAt, user.UpdatedAt).
		ToSql()

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		return domain.User{}, err
	}

	r.telemetry.RecordRepositoryQuery(ctx, "Create", "user", query, args)

	result, err := r.db.ExecContext(ctx, query, args...)

	if err != nil {
		if isUniqueViolation(err) {
			err = domain.ErrEmailTaken
		}

		span.SetStatus("error", err.Error())
		span.RecordError(err)
		r.telemetry.RecordRepositoryOperation(ctx, "Create", "user", time.Since(startTime), err)
		return domain.User{}, err
	}

	id, err := result.LastInsertId()

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		return domain.User{}, err
	}

	saved, err := r.GetByID(ctx, int(id))

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		r.telemetry.RecordRepositoryOperation(ctx, "Create", "user", time.Since(startTime), err)
		return domain.User{}, err
	}

	r.telemetry.RecordBusinessEvent(ctx, "created", "user", saved.ID, map[string]interface{}{
		"email":      saved.Email,
		"created_at": saved.CreatedAt,
	})

	span.SetAttributes(map[string]interface{}{"user.id": saved.ID})
	span.SetStatus("ok", "")
	r.telemetry.RecordRepositoryOperation(ctx, "Create", "user", time.Since(startTime), nil)

	return saved, nil
}

func (r *UserRepository) Update(ctx context.Context, id int, patch domain.UserPatch, updatedAt time.Time) (domain.User, error) {
	ctx, span := r.telemetry.StartRepositorySpan(ctx, "Update", "user", map[string]interface{}{
		"db.system":    "sqlite",
		"db.table":     "users",
		"db.operation": "UPDATE",
		"user.id":      id,
	})
	defer span.End()

	startTime := time.Now()

	// Only fields present in the patch reach the statement; updated_at is
	// refreshed unconditionally.
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

	span.SetAttributes(map[string]interface{}{"update.fields_count": len(values) - 1})

	query, args, err := r.db.QueryBuilder.Update("users").
		SetMap(values).
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		return domain.User{}, err
	}

	r.telemetry.RecordRepositoryQuery(ctx, "Update", "user", query, args)

	result, err := r.db.ExecContext(ctx, query, args...)

	if err != nil {
		if isUniqueViolation(err) {
			err = domain.ErrEmailTaken
		}

		span.SetStatus("error", err.Error())
		span.RecordError(err)
		r.telemetry.RecordRepositoryOperation(ctx, "Update", "user", time.Since(startTime), err)
		return domain.User{}, err
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return domain.User{}, err
	}

	if rowsAffected == 0 {
		span.SetStatus("error", domain.ErrUserNotFound.Error())
		r.telemetry.RecordRepositoryOperation(ctx, "Update", "user", time.Since(startTime), domain.ErrUserNotFound)
		return domain.User{}, domain.ErrUserNotFound
	}

	updated, err := r.GetByID(ctx, id)

	if err != nil {
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
		"db.system":    "sqlite",
		"db.table":     "users",
		"db.operation": "DELETE",
		"user.id":      id,
	})
	defer span.End()

	startTime := time.Now()

	// The deleted row is returned to the caller, so fetch it first.
	user, err := r.GetByID(ctx, id)

	if err != nil {
		span.SetStatus("error", err.Error())
		r.telemetry.RecordRepositoryOperation(ctx, "Delete", "user", time.Since(startTime), err)
		return domain.User{}, err
	}

	query, args, err := r.db.QueryBuilder.Delete("users").
		Where(sq.Eq{"id": id}).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	r.telemetry.RecordRepositoryQuery(ctx, "Delete", "user", query, args)

	result, err := r.db.ExecContext(ctx, query, args...)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		r.telemetry.RecordRepositoryOperation(ctx, "Delete", "user", time.Since(startTime), err)
		return domain.User{}, err
	}

	rowsAffected, _ := result.RowsAffected()

	if rowsAffected == 0 {
		return domain.User{}, domain.ErrUserNotFound
	}

	r.telemetry.RecordBusinessEvent(ctx, "deleted", "user", user.ID, map[string]interface{}{
		"email": user.Email,
	})

	span.SetStatus("ok", "")
	r.telemetry.RecordRepositoryOperation(ctx, "Delete", "user", time.Since(startTime), nil)

	return user, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(rows *sql.Rows, user *domain.User) error {
	return scanUserRow(rows, user)
}

func scanUserRow(row rowScanner, user *domain.User) error {
	return row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Age,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error

	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}

	return false
}
