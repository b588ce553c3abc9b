package db

import (
	"database/sql"

	"slgps/internal/models"
)

// ListAdminUsers returns every dashboard account ordered by name.
func ListAdminUsers(db *sql.DB) ([]models.AdminUser, error) {
	rows, err := db.Query("SELECT id, name, email, role, status, created_at FROM admin_users ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.AdminUser, 0)
	for rows.Next() {
		var u models.AdminUser
		var createdAt sql.NullString
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Status, &createdAt); err != nil {
			return nil, err
		}
		u.CreatedAt = ParseNullTime(createdAt)
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetAdminUser returns one account, or nil when it does not exist.
func GetAdminUser(db *sql.DB, id int64) (*models.AdminUser, error) {
	var u models.AdminUser
	var createdAt sql.NullString
	err := db.QueryRow(
		"SELECT id, name, email, role, status, password_hash, created_at FROM admin_users WHERE id = ?", id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Status, &u.PasswordHash, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = ParseNullTime(createdAt)
	return &u, nil
}

// GetAdminUserByEmail returns one account by email, or nil when unknown.
func GetAdminUserByEmail(db *sql.DB, email string) (*models.AdminUser, error) {
	var u models.AdminUser
	var createdAt sql.NullString
	err := db.QueryRow(
		"SELECT id, name, email, role, status, password_hash, created_at FROM admin_users WHERE email = ?", email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Status, &u.PasswordHash, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = ParseNullTime(createdAt)
	return &u, nil
}

// CreateAdminUser inserts an account and returns it with its assigned ID.
func CreateAdminUser(db *sql.DB, u models.AdminUser) (models.AdminUser, error) {
	res, err := db.Exec(
		"INSERT INTO admin_users (name, email, role, status, password_hash) VALUES (?, ?, ?, ?, ?)",
		u.Name, u.Email, u.Role, u.Status, u.PasswordHash,
	)
	if err != nil {
		return models.AdminUser{}, err
	}
	u.ID, err = res.LastInsertId()
	return u, err
}

// UpdateAdminUser overwrites name, email, role and status. The password
// hash is only touched when a new one is supplied.
func UpdateAdminUser(db *sql.DB, u models.AdminUser) error {
	if u.PasswordHash != "" {
		_, err := db.Exec(
			"UPDATE admin_users SET name = ?, email = ?, role = ?, status = ?, password_hash = ? WHERE id = ?",
			u.Name, u.Email, u.Role, u.Status, u.PasswordHash, u.ID,
		)
		return err
	}
	_, err := db.Exec(
		"UPDATE admin_users SET name = ?, email = ?, role = ?, status = ? WHERE id = ?",
		u.Name, u.Email, u.Role, u.Status, u.ID,
	)
	return err
}

// DeleteAdminUser removes an account; its sessions cascade.
func DeleteAdminUser(db *sql.DB, id int64) error {
	_, err := db.Exec("DELETE FROM admin_users WHERE id = ?", id)
	return err
}
