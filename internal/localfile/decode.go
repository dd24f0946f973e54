package localfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/mesh-intelligence/habitlog/pkg/types"
)

// Migration names reported by Decode.
const (
	MigrateCompletionList = "completion-list"
	MigrateProblemsKey    = "problems-key"
	MigrateProblemsAdded  = "problems-added"
	MigrateNotesAdded     = "daily-notes-added"
	MigrateDetailTime     = "detail-time"
)

// legacyProblemsKey is the collection name older files used for problems.
const legacyProblemsKey = "dsa_problems"

// legacyCompletion accepts the current detail fields plus the older "time"
// field that preceded "duration".
type legacyCompletion struct {
	Duration string `json:"duration"`
	Mode     string `json:"mode"`
	Notes    string `json:"notes"`
	Helped   string `json:"helped"`
	Time     string `json:"time"`
}

// Decode parses a ledger document, accepting JSON with comments and
// trailing commas, and upgrades legacy layouts in a single pass. The
// returned slice names each migration that changed the shape; it is empty
// for a file already in the current layout.
func Decode(data []byte) (*types.Ledger, []string, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid JSON: %w", err)
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(std, &top); err != nil {
		return nil, nil, fmt.Errorf("invalid JSON: %w", err)
	}

	var migrations []string
	migrated := func(name string) {
		for _, m := range migrations {
			if m == name {
				return
			}
		}
		migrations = append(migrations, name)
	}

	l := types.NewLedger()

	if raw, ok := top["habits"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &l.Habits); err != nil {
			return nil, nil, fmt.Errorf("decoding habits: %w", err)
		}
	}

	if raw, ok := top["completions"]; ok && !isNull(raw) {
		var days map[string]json.RawMessage
		if err := json.Unmarshal(raw, &days); err != nil {
			return nil, nil, fmt.Errorf("decoding completions: %w", err)
		}
		for day, v := range days {
			byHabit, names, err := decodeDay(v)
			if err != nil {
				return nil, nil, fmt.Errorf("decoding completions for %s: %w", day, err)
			}
			for _, n := range names {
				migrated(n)
			}
			l.Completions[types.Day(day)] = byHabit
		}
	}

	switch {
	case has(top, "problems"):
		if err := json.Unmarshal(top["problems"], &l.Problems); err != nil {
			return nil, nil, fmt.Errorf("decoding problems: %w", err)
		}
	case has(top, legacyProblemsKey):
		if err := json.Unmarshal(top[legacyProblemsKey], &l.Problems); err != nil {
			return nil, nil, fmt.Errorf("decoding %s: %w", legacyProblemsKey, err)
		}
		migrated(MigrateProblemsKey)
	default:
		migrated(MigrateProblemsAdded)
	}

	if has(top, "daily_notes") {
		if err := json.Unmarshal(top["daily_notes"], &l.Notes); err != nil {
			return nil, nil, fmt.Errorf("decoding daily_notes: %w", err)
		}
	} else {
		migrated(MigrateNotesAdded)
	}

	l.Normalize()
	for i := range l.Habits {
		if l.Habits[i].Icon == "" {
			l.Habits[i].Icon = types.DefaultIcon
		}
	}
	return l, migrations, nil
}

// decodeDay decodes one day's completion value, which is either the current
// mapping of habit ID to detail or the legacy list of habit IDs.
func decodeDay(raw json.RawMessage) (map[int]types.Completion, []string, error) {
	out := map[int]types.Completion{}
	trimmed := bytes.TrimSpace(raw)
	if isNull(trimmed) {
		return out, nil, nil
	}

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var ids []json.RawMessage
		if err := json.Unmarshal(trimmed, &ids); err != nil {
			return nil, nil, err
		}
		for _, idRaw := range ids {
			id, err := parseID(idRaw)
			if err != nil {
				return nil, nil, err
			}
			out[id] = types.Completion{}
		}
		return out, []string{MigrateCompletionList}, nil
	}

	var entries map[string]legacyCompletion
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, nil, err
	}
	var names []string
	for key, e := range entries {
		id, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, nil, fmt.Errorf("habit id %q: %w", key, err)
		}
		c := types.Completion{Duration: e.Duration, Mode: e.Mode, Notes: e.Notes, Helped: e.Helped}
		if c.Duration == "" && e.Time != "" {
			c.Duration = e.Time
			names = []string{MigrateDetailTime}
		}
		out[id] = c
	}
	return out, names, nil
}

// parseID accepts a habit ID written as a JSON number (3 or 3.0) or a
// numeric string.
func parseID(raw json.RawMessage) (int, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("habit id %s: not an integer", raw)
		}
		return int(f), nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("habit id %s: not a number or string", raw)
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("habit id %q: %w", s, err)
	}
	return n, nil
}

func has(top map[string]json.RawMessage, key string) bool {
	raw, ok := top[key]
	return ok && !isNull(raw)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
