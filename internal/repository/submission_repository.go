package repository

import (
	"database/sql"
	"fmt"
	"time"
)

type SubmissionStatus string

const (
	SubmissionStatusReceived      SubmissionStatus = "received"
	SubmissionStatusContactFailed SubmissionStatus = "contact_failed"
	SubmissionStatusContactSynced SubmissionStatus = "contact_synced"
	SubmissionStatusMessageSent   SubmissionStatus = "message_sent"
	SubmissionStatusMessageFailed SubmissionStatus = "message_failed"
)

type Submission struct {
	ID           string
	FormID       string
	FormTitle    string
	ContactID    *string
	Status       SubmissionStatus
	ErrorMessage *string
	CreatedAt    time.Time
}

type SubmissionRepository struct {
	db *sql.DB
}

func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(sub *Submission) error {
	_, err := r.db.Exec(`
		INSERT INTO submissions (id, form_id, form_title, status)
		VALUES (?, ?, ?, ?)
	`, sub.ID, sub.FormID, sub.FormTitle, string(sub.Status))
	if err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) SetContact(id, contactID string) error {
	_, err := r.db.Exec(`
		UPDATE submissions SET contact_id = ?, status = ? WHERE id = ?
	`, contactID, string(SubmissionStatusContactSynced), id)
	if err != nil {
		return fmt.Errorf("set submission contact: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) UpdateStatus(id string, status SubmissionStatus, errorMessage string) error {
	var errMsg *string
	if errorMessage != "" {
		errMsg = &errorMessage
	}
	_, err := r.db.Exec(`
		UPDATE submissions SET status = ?, error_message = ? WHERE id = ?
	`, string(status), errMsg, id)
	if err != nil {
		return fmt.Errorf("update submission status: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) ListRecent(limit int) ([]Submission, error) {
	rows, err := r.db.Query(`
		SELECT id, form_id, form_title, contact_id, status, error_message, created_at
		FROM submissions
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var sub Submission
		var contactID, errMsg sql.NullString
		var status string
		err := rows.Scan(
			&sub.ID,
			&sub.FormID,
			&sub.FormTitle,
			&contactID,
			&status,
			&errMsg,
			&sub.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		sub.Status = SubmissionStatus(status)
		if contactID.Valid {
			sub.ContactID = &contactID.String
		}
		if errMsg.Valid {
			sub.ErrorMessage = &errMsg.String
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return subs, nil
}
