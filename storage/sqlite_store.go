package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"stempel/timesheet"
)

type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS customers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	comment TEXT NOT NULL DEFAULT '',
	timezone TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS projects (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	customer_id INTEGER NOT NULL REFERENCES customers(id),
	name TEXT NOT NULL,
	comment TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS activities (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	project_id INTEGER REFERENCES projects(id),
	name TEXT NOT NULL,
	comment TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL,
	password TEXT NOT NULL,
	timezone TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS tags (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS timesheets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id),
	project_id INTEGER NOT NULL REFERENCES projects(id),
	activity_id INTEGER NOT NULL REFERENCES activities(id),
	begin_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	duration INTEGER NOT NULL CHECK(duration >= 0),
	description TEXT NOT NULL DEFAULT '',
	rate REAL,
	hourly_rate REAL,
	fixed_rate REAL,
	exported INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS timesheet_tags (
	timesheet_id INTEGER NOT NULL REFERENCES timesheets(id),
	tag_id INTEGER NOT NULL REFERENCES tags(id),
	PRIMARY KEY (timesheet_id, tag_id)
);
CREATE INDEX IF NOT EXISTS idx_projects_name ON projects(name);
CREATE INDEX IF NOT EXISTS idx_customers_name ON customers(name);
CREATE INDEX IF NOT EXISTS idx_activities_name ON activities(name);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FindCustomersByName(name string) ([]timesheet.Customer, error) {
	rows, err := s.db.Query(
		`SELECT id, name, comment, timezone, country FROM customers WHERE name = ? ORDER BY id;`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("query customers by name: %w", err)
	}
	defer rows.Close()

	customers := make([]timesheet.Customer, 0, 1)
	for rows.Next() {
		var customer timesheet.Customer
		if err := rows.Scan(&customer.ID, &customer.Name, &customer.Comment, &customer.Timezone, &customer.Country); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, customer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	return customers, nil
}

func (s *SQLiteStore) FindCustomerByID(id int64) (*timesheet.Customer, error) {
	var customer timesheet.Customer
	err := s.db.QueryRow(
		`SELECT id, name, comment, timezone, country FROM customers WHERE id = ?;`,
		id,
	).Scan(&customer.ID, &customer.Name, &customer.Comment, &customer.Timezone, &customer.Country)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query customer %d: %w", id, err)
	}
	return &customer, nil
}

func (s *SQLiteStore) SaveCustomer(customer *timesheet.Customer) error {
	res, err := s.db.Exec(
		`INSERT INTO customers (name, comment, timezone, country) VALUES (?, ?, ?, ?);`,
		customer.Name, customer.Comment, customer.Timezone, customer.Country,
	)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read inserted customer id: %w", err)
	}
	customer.ID = id
	return nil
}

func (s *SQLiteStore) FindProjectsByName(name string) ([]timesheet.Project, error) {
	rows, err := s.db.Query(`
SELECT p.id, p.customer_id, c.name, p.name, p.comment
FROM projects p
JOIN customers c ON c.id = p.customer_id
WHERE p.name = ?
ORDER BY p.id;`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("query projects by name: %w", err)
	}
	defer rows.Close()

	projects := make([]timesheet.Project, 0, 1)
	for rows.Next() {
		var project timesheet.Project
		if err := rows.Scan(&project.ID, &project.CustomerID, &project.CustomerName, &project.Name, &project.Comment); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

func (s *SQLiteStore) SaveProject(project *timesheet.Project) error {
	res, err := s.db.Exec(
		`INSERT INTO projects (customer_id, name, comment) VALUES (?, ?, ?);`,
		project.CustomerID, project.Name, project.Comment,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read inserted project id: %w", err)
	}
	project.ID = id
	return nil
}

func (s *SQLiteStore) FindActivities(name string, projectID int64) ([]timesheet.Activity, error) {
	return s.queryActivities(
		`SELECT id, project_id, name, comment FROM activities WHERE name = ? AND project_id = ? ORDER BY id;`,
		name, projectID,
	)
}

func (s *SQLiteStore) FindGlobalActivities(name string) ([]timesheet.Activity, error) {
	return s.queryActivities(
		`SELECT id, project_id, name, comment FROM activities WHERE name = ? AND project_id IS NULL ORDER BY id;`,
		name,
	)
}

func (s *SQLiteStore) queryActivities(query string, args ...any) ([]timesheet.Activity, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	activities := make([]timesheet.Activity, 0, 1)
	for rows.Next() {
		var activity timesheet.Activity
		var projectID sql.NullInt64
		if err := rows.Scan(&activity.ID, &projectID, &activity.Name, &activity.Comment); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if projectID.Valid {
			value := projectID.Int64
			activity.ProjectID = &value
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return activities, nil
}

func (s *SQLiteStore) SaveActivity(activity *timesheet.Activity) error {
	var projectID any
	if activity.ProjectID != nil {
		projectID = *activity.ProjectID
	}
	res, err := s.db.Exec(
		`INSERT INTO activities (project_id, name, comment) VALUES (?, ?, ?);`,
		projectID, activity.Name, activity.Comment,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read inserted activity id: %w", err)
	}
	activity.ID = id
	return nil
}

func (s *SQLiteStore) FindUserByUsername(username string) (*timesheet.User, error) {
	return s.queryUser(`SELECT id, username, email, password, timezone FROM users WHERE username = ?;`, username)
}

func (s *SQLiteStore) FindUserByEmail(email string) (*timesheet.User, error) {
	return s.queryUser(`SELECT id, username, email, password, timezone FROM users WHERE email = ? COLLATE NOCASE;`, email)
}

func (s *SQLiteStore) queryUser(query string, arg any) (*timesheet.User, error) {
	var user timesheet.User
	err := s.db.QueryRow(query, arg).Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.Timezone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}

func (s *SQLiteStore) SaveUser(user *timesheet.User) error {
	res, err := s.db.Exec(
		`INSERT INTO users (username, email, password, timezone) VALUES (?, ?, ?, ?);`,
		user.Username, user.Email, user.Password, user.Timezone,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read inserted user id: %w", err)
	}
	user.ID = id
	return nil
}

func (s *SQLiteStore) FindTagByName(name string) (*timesheet.Tag, error) {
	var tag timesheet.Tag
	err := s.db.QueryRow(`SELECT id, name FROM tags WHERE name = ?;`, name).Scan(&tag.ID, &tag.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query tag %q: %w", name, err)
	}
	return &tag, nil
}

// execer is satisfied by both *sql.DB and *sql.Tx so single inserts and
// batched inserts share the same write path.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

func (s *SQLiteStore) SaveTimesheet(entry *timesheet.Entry) error {
	return insertTimesheet(s.db, entry)
}

// SaveTimesheets persists a batch of entries in a single transaction.
func (s *SQLiteStore) SaveTimesheets(entries []timesheet.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	for i := range entries {
		if err := insertTimesheet(tx, &entries[i]); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func insertTimesheet(db execer, entry *timesheet.Entry) error {
	res, err := db.Exec(`
INSERT INTO timesheets (
	user_id, project_id, activity_id, begin_time, end_time,
	duration, description, rate, hourly_rate, fixed_rate, exported
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		entry.UserID,
		entry.ProjectID,
		entry.ActivityID,
		entry.Begin.Format(time.RFC3339),
		entry.End.Format(time.RFC3339),
		entry.Duration,
		entry.Description,
		entry.Rate,
		entry.HourlyRate,
		entry.FixedRate,
		entry.Exported,
	)
	if err != nil {
		return fmt.Errorf("insert timesheet: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read inserted timesheet id: %w", err)
	}
	entry.ID = id

	for i := range entry.Tags {
		if err := linkTag(db, entry.ID, &entry.Tags[i]); err != nil {
			return err
		}
	}
	return nil
}

// linkTag persists a not-yet-saved tag and attaches it to the entry. The
// unique name index makes the insert a no-op for names that appeared in an
// earlier row.
func linkTag(db execer, timesheetID int64, tag *timesheet.Tag) error {
	if tag.ID == 0 {
		if _, err := db.Exec(`INSERT OR IGNORE INTO tags (name) VALUES (?);`, tag.Name); err != nil {
			return fmt.Errorf("insert tag %q: %w", tag.Name, err)
		}
		if err := db.QueryRow(`SELECT id FROM tags WHERE name = ?;`, tag.Name).Scan(&tag.ID); err != nil {
			return fmt.Errorf("read tag id %q: %w", tag.Name, err)
		}
	}

	if _, err := db.Exec(
		`INSERT OR IGNORE INTO timesheet_tags (timesheet_id, tag_id) VALUES (?, ?);`,
		timesheetID, tag.ID,
	); err != nil {
		return fmt.Errorf("link tag %q: %w", tag.Name, err)
	}
	return nil
}

// ListTimesheets returns all persisted entries ordered by begin time, with
// user/customer/project/activity names and tags joined in for display.
func (s *SQLiteStore) ListTimesheets() ([]timesheet.Entry, error) {
	rows, err := s.db.Query(`
SELECT
	t.id, t.user_id, t.project_id, t.activity_id,
	t.begin_time, t.end_time, t.duration, t.description,
	t.rate, t.hourly_rate, t.fixed_rate, t.exported,
	u.username, c.name, p.name, a.name
FROM timesheets t
JOIN users u ON u.id = t.user_id
JOIN projects p ON p.id = t.project_id
JOIN customers c ON c.id = p.customer_id
JOIN activities a ON a.id = t.activity_id
ORDER BY t.begin_time, t.id;`)
	if err != nil {
		return nil, fmt.Errorf("query timesheets: %w", err)
	}
	defer rows.Close()

	entries := make([]timesheet.Entry, 0, 64)
	for rows.Next() {
		var entry timesheet.Entry
		var begin, end string
		var exported int
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.ProjectID, &entry.ActivityID,
			&begin, &end, &entry.Duration, &entry.Description,
			&entry.Rate, &entry.HourlyRate, &entry.FixedRate, &exported,
			&entry.Username, &entry.CustomerName, &entry.ProjectName, &entry.ActivityName,
		); err != nil {
			return nil, fmt.Errorf("scan timesheet: %w", err)
		}

		entry.Begin, err = time.Parse(time.RFC3339, begin)
		if err != nil {
			return nil, fmt.Errorf("parse begin time %q: %w", begin, err)
		}
		entry.End, err = time.Parse(time.RFC3339, end)
		if err != nil {
			return nil, fmt.Errorf("parse end time %q: %w", end, err)
		}
		entry.Exported = exported != 0

		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timesheets: %w", err)
	}

	for i := range entries {
		tags, err := s.timesheetTags(entries[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i].Tags = tags
	}

	return entries, nil
}

func (s *SQLiteStore) timesheetTags(timesheetID int64) ([]timesheet.Tag, error) {
	rows, err := s.db.Query(`
SELECT g.id, g.name
FROM timesheet_tags tt
JOIN tags g ON g.id = tt.tag_id
WHERE tt.timesheet_id = ?
ORDER BY g.name;`,
		timesheetID,
	)
	if err != nil {
		return nil, fmt.Errorf("query timesheet tags: %w", err)
	}
	defer rows.Close()

	tags := make([]timesheet.Tag, 0, 2)
	for rows.Next() {
		var tag timesheet.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	return tags, nil
}

func (s *SQLiteStore) DeleteAllTimesheets() (int, error) {
	if _, err := s.db.Exec(`DELETE FROM timesheet_tags;`); err != nil {
		return 0, fmt.Errorf("delete timesheet tags: %w", err)
	}
	res, err := s.db.Exec(`DELETE FROM timesheets;`)
	if err != nil {
		return 0, fmt.Errorf("delete timesheets: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}
	return int(deleted), nil
}

// TagNames is a convenience join of an entry's tag names for flat outputs.
func TagNames(tags []timesheet.Tag) string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return strings.Join(names, ",")
}
