package setup

import (
	"errors"
	"strconv"
	"strings"
)

var errInvalidIDs = errors.New("invalid id list")

// parseIDs reads a list such as "3, 5 7" into ids, dropping repeats
func parseIDs(raw string) ([]int64, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	if len(fields) == 0 {
		return nil, errInvalidIDs
	}

	seen := make(map[int64]struct{}, len(fields))
	ids := make([]int64, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.ParseInt(strings.TrimPrefix(f, "#"), 10, 64)
		if err != nil || id <= 0 {
			return nil, errInvalidIDs
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
