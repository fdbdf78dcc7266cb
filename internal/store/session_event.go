package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO session_events
		(sequence, timestamp, session_id, action, student_name, topic_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		seqNum, now(), data.SessionID, data.Action, data.StudentName, data.TopicCount,
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAssessment(ctx context.Context, data AssessmentEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO assessment_events
		(sequence, timestamp, session_id, student_name, topic_index, topic, rating,
		 explanation, message_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, now(), data.SessionID, data.StudentName, data.TopicIndex, data.Topic,
		data.Rating, data.Explanation, data.MessageCount,
	)
	if err != nil {
		return fmt.Errorf("save assessment event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentSessions(ctx context.Context, limit int) ([]SessionRecord, error) {
	q := `SELECT session_id, student_name, timestamp, topic_count FROM session_events
		WHERE action = ? ORDER BY sequence DESC`
	args := []any{SessionActionStarted}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	var sessions []SessionRecord
	index := make(map[string]int)
	for rows.Next() {
		var rec SessionRecord
		var started time.Time
		if err := rows.Scan(&rec.SessionID, &rec.StudentName, &started, &rec.TopicCount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan session: %w", err)
		}
		rec.StartedAt = started
		index[rec.SessionID] = len(sessions)
		sessions = append(sessions, rec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}

	ids := make([]any, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.SessionID)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")

	arows, err := r.db.QueryContext(ctx, `SELECT id, sequence, timestamp, session_id, student_name,
		topic_index, topic, rating, explanation, message_count
		FROM assessment_events WHERE session_id IN (`+placeholders+`)
		ORDER BY topic_index, sequence`, ids...)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	for arows.Next() {
		var a AssessmentEvent
		if err := arows.Scan(&a.ID, &a.Sequence, &a.Timestamp, &a.SessionID, &a.StudentName,
			&a.TopicIndex, &a.Topic, &a.Rating, &a.Explanation, &a.MessageCount); err != nil {
			arows.Close()
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		i := index[a.SessionID]
		sessions[i].Assessments = append(sessions[i].Assessments, a)
	}
	arows.Close()
	if err := arows.Err(); err != nil {
		return nil, err
	}

	frows, err := r.db.QueryContext(ctx, `SELECT DISTINCT session_id FROM session_events
		WHERE action = ? AND session_id IN (`+placeholders+`)`,
		append([]any{SessionActionFinished}, ids...)...)
	if err != nil {
		return nil, fmt.Errorf("query finished sessions: %w", err)
	}
	defer frows.Close()
	for frows.Next() {
		var id string
		if err := frows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan finished session: %w", err)
		}
		sessions[index[id]].Finished = true
	}
	return sessions, frows.Err()
}
