package store

import "sort"

// MissedWords aggregates testing attempts per word and returns the words
// missed most often, limited to unit when it is not empty.
func (s *SQLiteStore) MissedWords(unit string, limit int) ([]WordStat, error) {
	query := `SELECT s.unit, a.word, a.correct FROM attempts a JOIN sessions s ON s.id = a.session_id WHERE s.mode = ?`
	args := []any{ModeTesting}
	if unit != "" {
		query += ` AND s.unit = ?`
		args = append(args, unit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type key struct{ unit, word string }
	byWord := make(map[key]*WordStat)
	for rows.Next() {
		var k key
		var correct bool
		if err := rows.Scan(&k.unit, &k.word, &correct); err != nil {
			return nil, err
		}
		stat, ok := byWord[k]
		if !ok {
			stat = &WordStat{Unit: k.unit, Word: k.word}
			byWord[k] = stat
		}
		if correct {
			stat.Correct++
		} else {
			stat.Missed++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var stats []WordStat
	for _, stat := range byWord {
		if stat.Missed > 0 {
			stats = append(stats, *stat)
		}
	}

	// Most missed first, then by name for a stable listing
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Missed != stats[j].Missed {
			return stats[i].Missed > stats[j].Missed
		}
		if stats[i].Unit != stats[j].Unit {
			return stats[i].Unit < stats[j].Unit
		}
		return stats[i].Word < stats[j].Word
	})

	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	return stats, nil
}
