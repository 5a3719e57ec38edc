package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"lg/nutri-track-api/internal/model"
)

// Postgres is the pgx-backed Store.
type Postgres struct {
	pool *pgxpool.Pool
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// OpenPostgres creates a connection pool. We use a pool (not a single conn)
// because managed Postgres hosts close idle connections.
func OpenPostgres(ctx context.Context, url string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}
	// Simple protocol avoids "cached plan must not change result type" errors
	// from server-side prepared statement caches after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (s *Postgres) Close() { s.pool.Close() }

/* ─── Query helpers ──────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](ctx context.Context, q querier, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := q.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](ctx context.Context, q querier, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := q.Query(ctx, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

// pgError translates driver errors into the core error kinds.
func pgError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, model.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w: %s", op, model.ErrConflict, pgErr.Detail)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: %w: %s", op, model.ErrNotFound, pgErr.Detail)
		case "23514": // check_violation
			return fmt.Errorf("%s: %w: %s", op, model.ErrInvalidInput, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

/* ─── Users & profiles ───────────────────────────────────────────────── */

// CreateUser inserts the user and its empty profile row together.
func (s *Postgres) CreateUser(ctx context.Context, username, email, passwordHash string) (model.User, error) {
	var u model.User
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		u, err = queryOne[model.User](ctx, tx,
			`INSERT INTO users (username, email, password)
			 VALUES (@username, @email, @password)
			 RETURNING *`,
			pgx.NamedArgs{"username": username, "email": email, "password": passwordHash})
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, "INSERT INTO profiles (user_id) VALUES (@userID)", pgx.NamedArgs{"userID": u.ID})
		return err
	})
	if err != nil {
		return model.User{}, pgError("create user", err)
	}
	return u, nil
}

func (s *Postgres) FindUserByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := queryOne[model.User](ctx, s.pool,
		"SELECT * FROM users WHERE username = @username",
		pgx.NamedArgs{"username": username})
	if err != nil {
		return model.User{}, pgError("find user", err)
	}
	return u, nil
}

func (s *Postgres) FindProfile(ctx context.Context, userID int) (model.Profile, error) {
	p, err := queryOne[model.Profile](ctx, s.pool,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return model.Profile{}, pgError("find profile", err)
	}
	return p, nil
}

// UpdateProfile writes only the non-nil patch fields. Returns false when the
// user has no profile row.
func (s *Postgres) UpdateProfile(ctx context.Context, userID int, patch model.ProfilePatch) (bool, error) {
	setClauses := []string{"updated_at = now()"}
	args := pgx.NamedArgs{"userID": userID}

	if patch.Age != nil {
		setClauses = append(setClauses, "age = @age")
		args["age"] = *patch.Age
	}
	if patch.WeightKG != nil {
		setClauses = append(setClauses, "weight_kg = @weightKG")
		args["weightKG"] = *patch.WeightKG
	}
	if patch.HeightCM != nil {
		setClauses = append(setClauses, "height_cm = @heightCM")
		args["heightCM"] = *patch.HeightCM
	}
	if patch.Sex != nil {
		setClauses = append(setClauses, "sex = @sex")
		args["sex"] = string(*patch.Sex)
	}
	if patch.ActivityLevel != nil {
		setClauses = append(setClauses, "activity_level = @activityLevel")
		args["activityLevel"] = string(*patch.ActivityLevel)
	}
	if patch.Goal != nil {
		setClauses = append(setClauses, "goal = @goal")
		args["goal"] = string(*patch.Goal)
	}

	tag, err := s.pool.Exec(ctx,
		"UPDATE profiles SET "+strings.Join(setClauses, ", ")+" WHERE user_id = @userID", args)
	if err != nil {
		return false, pgError("update profile", err)
	}
	return tag.RowsAffected() > 0, nil
}

/* ─── Daily logs ─────────────────────────────────────────────────────── */

// UpsertLog relies on UNIQUE(user_id, log_date): racing callers all land on
// the same row. The no-op DO UPDATE makes RETURNING yield the existing row.
func (s *Postgres) UpsertLog(ctx context.Context, userID int, date model.DateOnly) (model.DailyLog, error) {
	l, err := queryOne[model.DailyLog](ctx, s.pool,
		`INSERT INTO daily_logs (user_id, log_date)
		 VALUES (@userID, @logDate)
		 ON CONFLICT (user_id, log_date) DO UPDATE SET log_date = EXCLUDED.log_date
		 RETURNING *`,
		pgx.NamedArgs{"userID": userID, "logDate": date.String()})
	if err != nil {
		return model.DailyLog{}, pgError("upsert daily log", err)
	}
	return l, nil
}

func (s *Postgres) GetLog(ctx context.Context, logID int64) (model.DailyLog, error) {
	l, err := queryOne[model.DailyLog](ctx, s.pool,
		"SELECT * FROM daily_logs WHERE id = @id",
		pgx.NamedArgs{"id": logID})
	if err != nil {
		return model.DailyLog{}, pgError("get daily log", err)
	}
	return l, nil
}

// AddFoodEntry bumps the totals first so a missing log aborts before the
// insert; both statements commit or roll back together.
func (s *Postgres) AddFoodEntry(ctx context.Context, logID int64, e model.NewFoodEntry) (int64, error) {
	args := pgx.NamedArgs{
		"logID": logID, "name": e.Name, "quantity": e.Quantity, "unit": e.Unit,
		"calories": e.Calories, "protein": e.Protein, "carbs": e.Carbs, "fats": e.Fats,
	}
	var entryID int64
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE daily_logs SET
				calories_consumed = calories_consumed + @calories,
				protein = protein + @protein,
				carbs = carbs + @carbs,
				fats = fats + @fats,
				updated_at = now()
			 WHERE id = @logID`, args)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return tx.QueryRow(ctx,
			`INSERT INTO food_entries (daily_log_id, food_name, quantity, unit, calories, protein, carbs, fats)
			 VALUES (@logID, @name, @quantity, @unit, @calories, @protein, @carbs, @fats)
			 RETURNING id`, args).Scan(&entryID)
	})
	if err != nil {
		return 0, pgError("add food entry", err)
	}
	return entryID, nil
}

// PatchLog builds the SET clause from the non-nil fields only.
func (s *Postgres) PatchLog(ctx context.Context, logID int64, patch model.LogPatch) (bool, error) {
	setClauses := []string{"updated_at = now()"}
	args := pgx.NamedArgs{"id": logID}

	if patch.WaterIntake != nil {
		setClauses = append(setClauses, "water_intake = @waterIntake")
		args["waterIntake"] = *patch.WaterIntake
	}
	if patch.ExerciseDuration != nil {
		setClauses = append(setClauses, "exercise_duration = @exerciseDuration")
		args["exerciseDuration"] = *patch.ExerciseDuration
	}
	if patch.Status != nil {
		setClauses = append(setClauses, "status = @status")
		args["status"] = string(*patch.Status)
	}

	tag, err := s.pool.Exec(ctx,
		"UPDATE daily_logs SET "+strings.Join(setClauses, ", ")+" WHERE id = @id", args)
	if err != nil {
		return false, pgError("patch daily log", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Postgres) ListEntries(ctx context.Context, logID int64) ([]model.FoodEntry, error) {
	entries, err := queryMany[model.FoodEntry](ctx, s.pool,
		`SELECT * FROM food_entries
		 WHERE daily_log_id = @logID
		 ORDER BY created_at DESC, id DESC`,
		pgx.NamedArgs{"logID": logID})
	if err != nil {
		return nil, pgError("list food entries", err)
	}
	return entries, nil
}

func (s *Postgres) LogsBetween(ctx context.Context, userID int, start, end model.DateOnly) ([]model.DailyLog, error) {
	logs, err := queryMany[model.DailyLog](ctx, s.pool,
		`SELECT * FROM daily_logs
		 WHERE user_id = @userID AND log_date >= @start AND log_date <= @end
		 ORDER BY log_date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start.String(), "end": end.String()})
	if err != nil {
		return nil, pgError("list daily logs", err)
	}
	return logs, nil
}

func (s *Postgres) TotalsDrift(ctx context.Context) ([]model.LogDrift, error) {
	drift, err := queryMany[model.LogDrift](ctx, s.pool,
		`SELECT * FROM (
			SELECT
				l.id AS log_id,
				l.calories_consumed AS stored_calories, COALESCE(SUM(e.calories), 0) AS entry_calories,
				l.protein AS stored_protein, COALESCE(SUM(e.protein), 0) AS entry_protein,
				l.carbs AS stored_carbs, COALESCE(SUM(e.carbs), 0) AS entry_carbs,
				l.fats AS stored_fats, COALESCE(SUM(e.fats), 0) AS entry_fats
			FROM daily_logs l
			LEFT JOIN food_entries e ON e.daily_log_id = l.id
			GROUP BY l.id
		 ) t
		 WHERE abs(stored_calories - entry_calories) > @tol
			OR abs(stored_protein - entry_protein) > @tol
			OR abs(stored_carbs - entry_carbs) > @tol
			OR abs(stored_fats - entry_fats) > @tol
		 ORDER BY log_id`,
		pgx.NamedArgs{"tol": driftTolerance})
	if err != nil {
		return nil, pgError("totals drift", err)
	}
	return drift, nil
}

/* ─── Recommendations ────────────────────────────────────────────────── */

func (s *Postgres) ReplaceRecommendations(ctx context.Context, userID int, batch []model.Recommendation) ([]model.Recommendation, error) {
	stored := make([]model.Recommendation, 0, len(batch))
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		// Regenerations for one user serialize on this lock until commit, so a
		// second run deactivates the first run's rows instead of missing them.
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(@userID)",
			pgx.NamedArgs{"userID": userID}); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx,
			"UPDATE recommendations SET is_active = FALSE WHERE user_id = @userID AND is_active",
			pgx.NamedArgs{"userID": userID}); err != nil {
			return err
		}
		for _, r := range batch {
			row, err := queryOne[model.Recommendation](ctx, tx,
				`INSERT INTO recommendations (user_id, batch_id, position, type, title, description, priority, is_active, created_at)
				 VALUES (@userID, @batchID, @position, @type, @title, @description, @priority, TRUE, @createdAt)
				 RETURNING *`,
				pgx.NamedArgs{
					"userID": userID, "batchID": r.BatchID.String(), "position": r.Position,
					"type": string(r.Type), "title": r.Title, "description": r.Description,
					"priority": string(r.Priority), "createdAt": r.CreatedAt,
				})
			if err != nil {
				return err
			}
			stored = append(stored, row)
		}
		return nil
	})
	if err != nil {
		return nil, pgError("replace recommendations", err)
	}
	return stored, nil
}

// ListRecommendations returns the active batch by priority, then recency, then
// rule order. With includeInactive, every batch is returned newest first.
func (s *Postgres) ListRecommendations(ctx context.Context, userID int, includeInactive bool) ([]model.Recommendation, error) {
	sql := `SELECT * FROM recommendations
		 WHERE user_id = @userID AND is_active
		 ORDER BY CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END,
			created_at DESC, position ASC`
	if includeInactive {
		sql = `SELECT * FROM recommendations
		 WHERE user_id = @userID
		 ORDER BY created_at DESC, position ASC`
	}
	recs, err := queryMany[model.Recommendation](ctx, s.pool, sql, pgx.NamedArgs{"userID": userID})
	if err != nil {
		return nil, pgError("list recommendations", err)
	}
	return recs, nil
}

/* ─── Migrations ─────────────────────────────────────────────────────── */

func (s *Postgres) Migrate(ctx context.Context) ([]string, error) {
	return runMigrations(ctx, "migrations/postgres", s)
}

// appliedMigrations reads the migrations table. A missing table means nothing
// has been applied; any other failure is returned.
func (s *Postgres) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	applied := make(map[string]bool)
	rows, err := s.pool.Query(ctx, "SELECT migration FROM migrations")
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "42P01" { // undefined_table
			return applied, nil
		}
		return nil, fmt.Errorf("read applied migrations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

func (s *Postgres) applyMigration(ctx context.Context, name, description, sql string) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, sql); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			"INSERT INTO migrations (migration, description) VALUES ($1, $2)", name, description)
		return err
	})
}
