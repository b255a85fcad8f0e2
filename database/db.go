package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"gallery/models"

	_ "github.com/mattn/go-sqlite3"
)

// StorageKey — ключ единственной сохраняемой записи галереи.
const StorageKey = "matrix-gallery-storage-v2"

// InitDB открывает или создаёт базу данных и выполняет миграции схемы.
// При пустом пути используется файл gallery.db в рабочей директории.
func InitDB(path string) (*sql.DB, error) {
	if path == "" {
		path = "./gallery.db"
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// ensureSchema создаёт необходимые таблицы, если они отсутствуют.
func ensureSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS storage (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("schema migration failed: %w", err)
		}
	}

	return nil
}

// SaveSnapshot сериализует состояние галереи и записывает его под StorageKey.
// Возвращает ошибку, если сериализация или запись не удались
// (например, закончилось место на диске).
func SaveSnapshot(db *sql.DB, snap models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot failed: %w", err)
	}
	_, err = db.Exec(`
        INSERT INTO storage (key, value) VALUES (?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value
    `, StorageKey, string(data))
	if err != nil {
		return fmt.Errorf("save snapshot failed: %w", err)
	}
	return nil
}

// LoadSnapshot читает сохранённое состояние галереи.
// Если записи нет, возвращает nil без ошибки.
func LoadSnapshot(db *sql.DB) (*models.Snapshot, error) {
	var value string
	err := db.QueryRow("SELECT value FROM storage WHERE key = ?", StorageKey).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(value), &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot failed: %w", err)
	}
	return &snap, nil
}

// ClearSnapshot удаляет сохранённую запись галереи.
// Возвращает ошибку, если удаление не удалось.
func ClearSnapshot(db *sql.DB) error {
	_, err := db.Exec("DELETE FROM storage WHERE key = ?", StorageKey)
	return err
}
