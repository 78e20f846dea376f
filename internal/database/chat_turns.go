package database

import (
	"fmt"
	"time"
)

// Chat turn roles
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// ChatTurn is one entry in the session transcript.
type ChatTurn struct {
	ID        int64     `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"timestamp"`
}

// AppendChatTurn appends a turn to the transcript and returns its ID.
func (d *DB) AppendChatTurn(role, content string) (int64, error) {
	if role != RoleUser && role != RoleBot {
		return 0, fmt.Errorf("invalid chat turn role: %s", role)
	}

	result, err := d.Exec(`INSERT INTO chat_turns (role, content) VALUES (?, ?)`, role, content)
	if err != nil {
		return 0, fmt.Errorf("failed to append chat turn: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get chat turn ID: %w", err)
	}
	return id, nil
}

// ListChatTurns returns the full transcript in insertion order.
func (d *DB) ListChatTurns() ([]ChatTurn, error) {
	rows, err := d.Query(`
		SELECT id, role, content, created_at
		FROM chat_turns
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat turns: %w", err)
	}
	defer rows.Close()

	var turns []ChatTurn
	for rows.Next() {
		var t ChatTurn
		if err := rows.Scan(&t.ID, &t.Role, &t.Content, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat turns: %w", err)
	}

	return turns, nil
}

// ClearChatTurns deletes the whole transcript.
func (d *DB) ClearChatTurns() error {
	if _, err := d.Exec(`DELETE FROM chat_turns`); err != nil {
		return fmt.Errorf("failed to clear chat turns: %w", err)
	}
	return nil
}
