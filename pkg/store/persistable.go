package store

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	"github.com/betgenius/betgenius/internal/logger"
	_ "modernc.org/sqlite"
)

// Persistable is implemented by every record type the store manages.
// Column mapping comes from struct tags: `column` names the column,
// `dbtype` gives the sqlite type (fields without one are not persisted),
// `primary:"true"` marks key fields and `index:"true"` requests an index.
type Persistable interface {
	TableName() string
	PrimaryKey() map[string]any
	BeforeSave() error
}

// Store wraps a sqlite database holding models, journal entries and the
// cached match snapshot.
type Store struct {
	db *sql.DB
}

// Open connects to (or creates) the database at path and ensures every
// table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database %s: %w", path, err)
	}
	s := &Store{db: db}
	for _, record := range []Persistable{&ModelRecord{}, &JournalEntry{}, &MatchRecord{}} {
		if err := s.createTable(record); err != nil {
			return nil, err
		}
	}
	logger.Info("database ready", path)
	return s, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTable(obj Persistable) error {
	table := obj.TableName()
	createSQL := generateCreateTableSQL(obj, table)
	logger.Debug("creating table", createSQL)
	if _, err := s.db.Exec(createSQL); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	for _, indexSQL := range generateIndexSQL(obj, table) {
		if _, err := s.db.Exec(indexSQL); err != nil {
			logger.Warn("failed to create index", err)
		}
	}
	return nil
}

func generateCreateTableSQL(obj any, table string) string {
	objType := reflect.TypeOf(obj)
	if objType.Kind() == reflect.Ptr {
		objType = objType.Elem()
	}

	var columns []string
	var primaryKeys []string
	for i := 0; i < objType.NumField(); i++ {
		field := objType.Field(i)
		if !field.IsExported() {
			continue
		}
		dbType := field.Tag.Get("dbtype")
		if dbType == "" {
			continue
		}
		column := columnName(field)
		if field.Tag.Get("primary") == "true" {
			primaryKeys = append(primaryKeys, column)
			dbType = strings.TrimSpace(strings.ReplaceAll(dbType, "PRIMARY KEY", ""))
		}
		columns = append(columns, fmt.Sprintf("%s %s", column, dbType))
	}
	if len(primaryKeys) > 0 {
		columns = append(columns, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(primaryKeys, ", ")))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(columns, ", "))
}

func generateIndexSQL(obj any, table string) []string {
	objType := reflect.TypeOf(obj)
	if objType.Kind() == reflect.Ptr {
		objType = objType.Elem()
	}
	var statements []string
	for i := 0; i < objType.NumField(); i++ {
		field := objType.Field(i)
		if field.Tag.Get("index") != "true" {
			continue
		}
		column := columnName(field)
		statements = append(statements, fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s(%s)", table, column, table, column))
	}
	return statements
}

func columnName(field reflect.StructField) string {
	if name := field.Tag.Get("column"); name != "" {
		return name
	}
	return strings.ToLower(field.Name)
}

// Save inserts the record or updates it when the primary key already
// exists.
func (s *Store) Save(obj Persistable) error {
	if err := obj.BeforeSave(); err != nil {
		return fmt.Errorf("before save hook failed: %w", err)
	}
	exists, err := s.Exists(obj)
	if err != nil {
		return err
	}
	if exists {
		return s.update(obj)
	}
	return s.insert(obj)
}

// BulkSave writes many records in one transaction.
func (s *Store) BulkSave(objects []Persistable) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, obj := range objects {
		if err := obj.BeforeSave(); err != nil {
			return fmt.Errorf("before save hook failed: %w", err)
		}
		table := obj.TableName()
		columns, placeholders, values := insertData(obj)
		query := fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
			table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
		if _, err := tx.Exec(query, values...); err != nil {
			return fmt.Errorf("failed to save into %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) insert(obj Persistable) error {
	table := obj.TableName()
	columns, placeholders, values := insertData(obj)
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	if _, err := s.db.Exec(query, values...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func (s *Store) update(obj Persistable) error {
	table := obj.TableName()
	setPairs, values := updateData(obj)
	whereClause, whereValues := buildWhereClause(obj.PrimaryKey())
	values = append(values, whereValues...)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s", table, strings.Join(setPairs, ", "), whereClause)
	if _, err := s.db.Exec(query, values...); err != nil {
		return fmt.Errorf("failed to update %s: %w", table, err)
	}
	return nil
}

// Exists reports whether a record with the object's primary key is
// present.
func (s *Store) Exists(obj Persistable) (bool, error) {
	table := obj.TableName()
	whereClause, values := buildWhereClause(obj.PrimaryKey())
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", table, whereClause)
	if err := s.db.QueryRow(query, values...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check existence in %s: %w", table, err)
	}
	return count > 0, nil
}

// Delete removes the record with the object's primary key.
func (s *Store) Delete(obj Persistable) error {
	table := obj.TableName()
	whereClause, values := buildWhereClause(obj.PrimaryKey())
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", table, whereClause)
	if _, err := s.db.Exec(query, values...); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return nil
}

// FindByPrimaryKey loads the record for the given key into obj.
// sql.ErrNoRows is passed through so callers can translate it.
func (s *Store) FindByPrimaryKey(obj Persistable, key map[string]any) error {
	table := obj.TableName()
	columns, destinations := selectData(obj)
	whereClause, values := buildWhereClause(key)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", strings.Join(columns, ", "), table, whereClause)
	if err := s.db.QueryRow(query, values...).Scan(destinations...); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("failed to load from %s: %w", table, err)
	}
	return nil
}

// FindWhere loads every record matching the clause. prototype is only
// used for its type; pass an empty clause to load the whole table.
func (s *Store) FindWhere(prototype Persistable, whereClause string, args ...any) ([]any, error) {
	table := prototype.TableName()
	columns, _ := selectData(prototype)
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(columns, ", "), table)
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	objType := reflect.TypeOf(prototype)
	if objType.Kind() == reflect.Ptr {
		objType = objType.Elem()
	}

	var results []any
	for rows.Next() {
		record := reflect.New(objType).Interface()
		_, destinations := selectData(record)
		if err := rows.Scan(destinations...); err != nil {
			return nil, fmt.Errorf("failed to scan row from %s: %w", table, err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows from %s: %w", table, err)
	}
	return results, nil
}

func insertData(obj any) ([]string, []string, []any) {
	objValue := reflect.ValueOf(obj)
	objType := reflect.TypeOf(obj)
	if objValue.Kind() == reflect.Ptr {
		objValue = objValue.Elem()
		objType = objType.Elem()
	}

	var columns, placeholders []string
	var values []any
	for i := 0; i < objType.NumField(); i++ {
		field := objType.Field(i)
		if !field.IsExported() || field.Tag.Get("dbtype") == "" {
			continue
		}
		columns = append(columns, columnName(field))
		placeholders = append(placeholders, "?")
		values = append(values, objValue.Field(i).Interface())
	}
	return columns, placeholders, values
}

func updateData(obj any) ([]string, []any) {
	objValue := reflect.ValueOf(obj)
	objType := reflect.TypeOf(obj)
	if objValue.Kind() == reflect.Ptr {
		objValue = objValue.Elem()
		objType = objType.Elem()
	}

	var setPairs []string
	var values []any
	for i := 0; i < objType.NumField(); i++ {
		field := objType.Field(i)
		if !field.IsExported() || field.Tag.Get("dbtype") == "" || field.Tag.Get("primary") == "true" {
			continue
		}
		setPairs = append(setPairs, fmt.Sprintf("%s = ?", columnName(field)))
		values = append(values, objValue.Field(i).Interface())
	}
	return setPairs, values
}

func selectData(obj any) ([]string, []any) {
	objValue := reflect.ValueOf(obj)
	objType := reflect.TypeOf(obj)
	if objValue.Kind() == reflect.Ptr {
		objValue = objValue.Elem()
		objType = objType.Elem()
	}

	var columns []string
	var destinations []any
	for i := 0; i < objType.NumField(); i++ {
		field := objType.Field(i)
		if !field.IsExported() || field.Tag.Get("dbtype") == "" {
			continue
		}
		columns = append(columns, columnName(field))
		destinations = append(destinations, objValue.Field(i).Addr().Interface())
	}
	return columns, destinations
}

func buildWhereClause(key map[string]any) (string, []any) {
	var conditions []string
	var values []any
	for column, value := range key {
		conditions = append(conditions, fmt.Sprintf("%s = ?", column))
		values = append(values, value)
	}
	return strings.Join(conditions, " AND "), values
}
