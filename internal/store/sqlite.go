package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"lg/nutri-track-api/internal/model"
)

// SQLite is the database/sql + modernc.org/sqlite Store. Dates and timestamps
// are stored as fixed-width UTC text so they sort lexically.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// sqliteTime is the storage layout for timestamps. Fixed width keeps ORDER BY
// on the text column chronological.
const sqliteTime = "2006-01-02 15:04:05.000000000"

// OpenSQLite opens (creating if needed) the database file at path. A single
// connection serializes writers and keeps the per-connection pragmas in effect.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	for _, pragma := range []string{`PRAGMA foreign_keys = ON`, `PRAGMA busy_timeout = 5000`} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return &SQLite{db: db, now: time.Now}, nil
}

func (s *SQLite) Close() { s.db.Close() }

func (s *SQLite) stamp() string { return s.now().UTC().Format(sqliteTime) }

func parseStamp(v string) (time.Time, error) {
	return time.Parse(sqliteTime, v)
}

// sqliteError translates driver errors into the core error kinds.
func sqliteError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, model.ErrNotFound)
	}
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		msg := se.Error()
		switch {
		case se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || strings.Contains(msg, "UNIQUE"):
			return fmt.Errorf("%s: %w: %s", op, model.ErrConflict, msg)
		case se.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY || strings.Contains(msg, "FOREIGN KEY"):
			return fmt.Errorf("%s: %w: %s", op, model.ErrNotFound, msg)
		default:
			return fmt.Errorf("%s: %w: %s", op, model.ErrInvalidInput, msg)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

/* ─── Users & profiles ───────────────────────────────────────────────── */

const userColumns = `id, username, email, password, created_at`

func scanUser(row scanner) (model.User, error) {
	var u model.User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &created); err != nil {
		return model.User{}, err
	}
	t, err := parseStamp(created)
	if err != nil {
		return model.User{}, err
	}
	u.CreatedAt = &t
	return u, nil
}

func (s *SQLite) CreateUser(ctx context.Context, username, email, passwordHash string) (model.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, sqliteError("create user", err)
	}
	defer tx.Rollback()

	u, err := scanUser(tx.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password, created_at) VALUES (?, ?, ?, ?)
		 RETURNING `+userColumns,
		username, email, passwordHash, s.stamp()))
	if err != nil {
		return model.User{}, sqliteError("create user", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO profiles (user_id) VALUES (?)`, u.ID); err != nil {
		return model.User{}, sqliteError("create user", err)
	}
	if err := tx.Commit(); err != nil {
		return model.User{}, sqliteError("create user", err)
	}
	return u, nil
}

func (s *SQLite) FindUserByUsername(ctx context.Context, username string) (model.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if err != nil {
		return model.User{}, sqliteError("find user", err)
	}
	return u, nil
}

func (s *SQLite) FindProfile(ctx context.Context, userID int) (model.Profile, error) {
	var (
		p                         model.Profile
		age                       sql.NullInt64
		weight, height            sql.NullFloat64
		sex, level, goal, updated sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, age, weight_kg, height_cm, sex, activity_level, goal, updated_at
		 FROM profiles WHERE user_id = ?`, userID).
		Scan(&p.UserID, &age, &weight, &height, &sex, &level, &goal, &updated)
	if err != nil {
		return model.Profile{}, sqliteError("find profile", err)
	}
	if age.Valid {
		v := int(age.Int64)
		p.Age = &v
	}
	if weight.Valid {
		p.WeightKG = &weight.Float64
	}
	if height.Valid {
		p.HeightCM = &height.Float64
	}
	if sex.Valid {
		v := model.Sex(sex.String)
		p.Sex = &v
	}
	if level.Valid {
		v := model.ActivityLevel(level.String)
		p.ActivityLevel = &v
	}
	if goal.Valid {
		v := model.Goal(goal.String)
		p.Goal = &v
	}
	if updated.Valid {
		t, err := parseStamp(updated.String)
		if err != nil {
			return model.Profile{}, fmt.Errorf("find profile: %w", err)
		}
		p.UpdatedAt = &t
	}
	return p, nil
}

func (s *SQLite) UpdateProfile(ctx context.Context, userID int, patch model.ProfilePatch) (bool, error) {
	setClauses := []string{"updated_at = ?"}
	args := []any{s.stamp()}

	if patch.Age != nil {
		setClauses = append(setClauses, "age = ?")
		args = append(args, *patch.Age)
	}
	if patch.WeightKG != nil {
		setClauses = append(setClauses, "weight_kg = ?")
		args = append(args, *patch.WeightKG)
	}
	if patch.HeightCM != nil {
		setClauses = append(setClauses, "height_cm = ?")
		args = append(args, *patch.HeightCM)
	}
	if patch.Sex != nil {
		setClauses = append(setClauses, "sex = ?")
		args = append(args, string(*patch.Sex))
	}
	if patch.ActivityLevel != nil {
		setClauses = append(setClauses, "activity_level = ?")
		args = append(args, string(*patch.ActivityLevel))
	}
	if patch.Goal != nil {
		setClauses = append(setClauses, "goal = ?")
		args = append(args, string(*patch.Goal))
	}
	args = append(args, userID)

	res, err := s.db.ExecContext(ctx,
		"UPDATE profiles SET "+strings.Join(setClauses, ", ")+" WHERE user_id = ?", args...)
	if err != nil {
		return false, sqliteError("update profile", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, sqliteError("update profile", err)
	}
	return n > 0, nil
}

/* ─── Daily logs ─────────────────────────────────────────────────────── */

const logColumns = `id, user_id, log_date, calories_consumed, protein, carbs, fats,
	water_intake, exercise_duration, status, created_at, updated_at`

func scanLog(row scanner) (model.DailyLog, error) {
	var (
		l                         model.DailyLog
		date, status, created, up string
	)
	err := row.Scan(&l.ID, &l.UserID, &date, &l.CaloriesConsumed, &l.Protein, &l.Carbs, &l.Fats,
		&l.WaterIntake, &l.ExerciseDuration, &status, &created, &up)
	if err != nil {
		return model.DailyLog{}, err
	}
	if l.LogDate, err = model.ParseDate(date); err != nil {
		return model.DailyLog{}, err
	}
	l.Status = model.LogStatus(status)
	if l.CreatedAt, err = parseStamp(created); err != nil {
		return model.DailyLog{}, err
	}
	if l.UpdatedAt, err = parseStamp(up); err != nil {
		return model.DailyLog{}, err
	}
	return l, nil
}

// UpsertLog relies on UNIQUE(user_id, log_date). The no-op DO UPDATE makes
// RETURNING yield the existing row.
func (s *SQLite) UpsertLog(ctx context.Context, userID int, date model.DateOnly) (model.DailyLog, error) {
	now := s.stamp()
	l, err := scanLog(s.db.QueryRowContext(ctx,
		`INSERT INTO daily_logs (user_id, log_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, log_date) DO UPDATE SET log_date = excluded.log_date
		 RETURNING `+logColumns,
		userID, date.String(), now, now))
	if err != nil {
		return model.DailyLog{}, sqliteError("upsert daily log", err)
	}
	return l, nil
}

func (s *SQLite) GetLog(ctx context.Context, logID int64) (model.DailyLog, error) {
	l, err := scanLog(s.db.QueryRowContext(ctx,
		`SELECT `+logColumns+` FROM daily_logs WHERE id = ?`, logID))
	if err != nil {
		return model.DailyLog{}, sqliteError("get daily log", err)
	}
	return l, nil
}

func (s *SQLite) AddFoodEntry(ctx context.Context, logID int64, e model.NewFoodEntry) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, sqliteError("add food entry", err)
	}
	defer tx.Rollback()

	now := s.stamp()
	res, err := tx.ExecContext(ctx,
		`UPDATE daily_logs SET
			calories_consumed = calories_consumed + ?,
			protein = protein + ?,
			carbs = carbs + ?,
			fats = fats + ?,
			updated_at = ?
		 WHERE id = ?`,
		e.Calories, e.Protein, e.Carbs, e.Fats, now, logID)
	if err != nil {
		return 0, sqliteError("add food entry", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return 0, sqliteError("add food entry", err)
	} else if n == 0 {
		return 0, fmt.Errorf("add food entry: %w: daily log %d", model.ErrNotFound, logID)
	}

	var entryID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO food_entries (daily_log_id, food_name, quantity, unit, calories, protein, carbs, fats, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING id`,
		logID, e.Name, e.Quantity, e.Unit, e.Calories, e.Protein, e.Carbs, e.Fats, now).Scan(&entryID)
	if err != nil {
		return 0, sqliteError("add food entry", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, sqliteError("add food entry", err)
	}
	return entryID, nil
}

func (s *SQLite) PatchLog(ctx context.Context, logID int64, patch model.LogPatch) (bool, error) {
	setClauses := []string{"updated_at = ?"}
	args := []any{s.stamp()}

	if patch.WaterIntake != nil {
		setClauses = append(setClauses, "water_intake = ?")
		args = append(args, *patch.WaterIntake)
	}
	if patch.ExerciseDuration != nil {
		setClauses = append(setClauses, "exercise_duration = ?")
		args = append(args, *patch.ExerciseDuration)
	}
	if patch.Status != nil {
		setClauses = append(setClauses, "status = ?")
		args = append(args, string(*patch.Status))
	}
	args = append(args, logID)

	res, err := s.db.ExecContext(ctx,
		"UPDATE daily_logs SET "+strings.Join(setClauses, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return false, sqliteError("patch daily log", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, sqliteError("patch daily log", err)
	}
	return n > 0, nil
}

func (s *SQLite) ListEntries(ctx context.Context, logID int64) ([]model.FoodEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, daily_log_id, food_name, quantity, unit, calories, protein, carbs, fats, created_at
		 FROM food_entries WHERE daily_log_id = ?
		 ORDER BY created_at DESC, id DESC`, logID)
	if err != nil {
		return nil, sqliteError("list food entries", err)
	}
	defer rows.Close()

	entries := []model.FoodEntry{}
	for rows.Next() {
		var e model.FoodEntry
		var created string
		if err := rows.Scan(&e.ID, &e.DailyLogID, &e.Name, &e.Quantity, &e.Unit,
			&e.Calories, &e.Protein, &e.Carbs, &e.Fats, &created); err != nil {
			return nil, sqliteError("list food entries", err)
		}
		if e.CreatedAt, err = parseStamp(created); err != nil {
			return nil, fmt.Errorf("list food entries: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLite) LogsBetween(ctx context.Context, userID int, start, end model.DateOnly) ([]model.DailyLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+logColumns+` FROM daily_logs
		 WHERE user_id = ? AND log_date >= ? AND log_date <= ?
		 ORDER BY log_date ASC`,
		userID, start.String(), end.String())
	if err != nil {
		return nil, sqliteError("list daily logs", err)
	}
	defer rows.Close()

	logs := []model.DailyLog{}
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, sqliteError("list daily logs", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *SQLite) TotalsDrift(ctx context.Context) ([]model.LogDrift, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT * FROM (
			SELECT
				l.id, l.calories_consumed, COALESCE(SUM(e.calories), 0) AS ec,
				l.protein, COALESCE(SUM(e.protein), 0) AS ep,
				l.carbs, COALESCE(SUM(e.carbs), 0) AS eca,
				l.fats, COALESCE(SUM(e.fats), 0) AS ef
			FROM daily_logs l
			LEFT JOIN food_entries e ON e.daily_log_id = l.id
			GROUP BY l.id
		 )
		 WHERE abs(calories_consumed - ec) > ?1
			OR abs(protein - ep) > ?1
			OR abs(carbs - eca) > ?1
			OR abs(fats - ef) > ?1
		 ORDER BY id`, driftTolerance)
	if err != nil {
		return nil, sqliteError("totals drift", err)
	}
	defer rows.Close()

	drift := []model.LogDrift{}
	for rows.Next() {
		var d model.LogDrift
		if err := rows.Scan(&d.LogID, &d.StoredCalories, &d.EntryCalories, &d.StoredProtein, &d.EntryProtein,
			&d.StoredCarbs, &d.EntryCarbs, &d.StoredFats, &d.EntryFats); err != nil {
			return nil, sqliteError("totals drift", err)
		}
		drift = append(drift, d)
	}
	return drift, rows.Err()
}

/* ─── Recommendations ────────────────────────────────────────────────── */

const recommendationColumns = `id, user_id, batch_id, position, type, title, description, priority, is_active, created_at`

func scanRecommendation(row scanner) (model.Recommendation, error) {
	var (
		r                      model.Recommendation
		typ, priority, created string
	)
	err := row.Scan(&r.ID, &r.UserID, &r.BatchID, &r.Position, &typ, &r.Title, &r.Description,
		&priority, &r.IsActive, &created)
	if err != nil {
		return model.Recommendation{}, err
	}
	r.Type = model.RecommendationType(typ)
	r.Priority = model.Priority(priority)
	if r.CreatedAt, err = parseStamp(created); err != nil {
		return model.Recommendation{}, err
	}
	return r, nil
}

func (s *SQLite) ReplaceRecommendations(ctx context.Context, userID int, batch []model.Recommendation) ([]model.Recommendation, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, sqliteError("replace recommendations", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE recommendations SET is_active = 0 WHERE user_id = ? AND is_active = 1`, userID); err != nil {
		return nil, sqliteError("replace recommendations", err)
	}

	stored := make([]model.Recommendation, 0, len(batch))
	for _, r := range batch {
		row, err := scanRecommendation(tx.QueryRowContext(ctx,
			`INSERT INTO recommendations (user_id, batch_id, position, type, title, description, priority, is_active, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?)
			 RETURNING `+recommendationColumns,
			userID, r.BatchID.String(), r.Position, string(r.Type), r.Title, r.Description,
			string(r.Priority), r.CreatedAt.UTC().Format(sqliteTime)))
		if err != nil {
			return nil, sqliteError("replace recommendations", err)
		}
		stored = append(stored, row)
	}
	if err := tx.Commit(); err != nil {
		return nil, sqliteError("replace recommendations", err)
	}
	return stored, nil
}

func (s *SQLite) ListRecommendations(ctx context.Context, userID int, includeInactive bool) ([]model.Recommendation, error) {
	query := `SELECT ` + recommendationColumns + ` FROM recommendations
		 WHERE user_id = ? AND is_active = 1
		 ORDER BY CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END,
			created_at DESC, position ASC`
	if includeInactive {
		query = `SELECT ` + recommendationColumns + ` FROM recommendations
		 WHERE user_id = ?
		 ORDER BY created_at DESC, position ASC`
	}
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, sqliteError("list recommendations", err)
	}
	defer rows.Close()

	recs := []model.Recommendation{}
	for rows.Next() {
		r, err := scanRecommendation(rows)
		if err != nil {
			return nil, sqliteError("list recommendations", err)
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

/* ─── Migrations ─────────────────────────────────────────────────────── */

func (s *SQLite) Migrate(ctx context.Context) ([]string, error) {
	return runMigrations(ctx, "migrations/sqlite", s)
}

func (s *SQLite) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	applied := make(map[string]bool)
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'migrations'`).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return applied, nil
	}
	rows, err := s.db.QueryContext(ctx, `SELECT migration FROM migrations`)
	if err != nil {
		return nil, err
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

func (s *SQLite) applyMigration(ctx context.Context, name, description, script string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, script); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO migrations (migration, description) VALUES (?, ?)`, name, description); err != nil {
		return err
	}
	return tx.Commit()
}
