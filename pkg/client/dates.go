package client

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Sternrassler/monbillet-client/pkg/jsonvalue"
	"github.com/spf13/cast"
)

// NormalizeDates returns a copy of v in which every dateFirstShow,
// dateLastShow and dateHappens member, at any depth, holds a parsed time.
// Null values and all other members are left as they are. Dates without an
// offset are read in loc (time.Local when nil).
func NormalizeDates(v jsonvalue.Value, loc *time.Location) (jsonvalue.Value, error) {
	dateFields := map[string]struct{}{
		"dateFirstShow": {},
		"dateLastShow":  {},
		"dateHappens":   {},
	}
	if loc == nil {
		loc = time.Local
	}

	return v.RewriteMembers(func(key string, in jsonvalue.Value) (jsonvalue.Value, bool, error) {
		if _, ok := dateFields[key]; !ok || in.IsNull() {
			return in, false, nil
		}

		t, err := parseDate(in, loc)
		if err != nil {
			return jsonvalue.Null(), false, &APIError{
				Kind:    KindDecode,
				Message: fmt.Sprintf("invalid date in field %q", key),
				Err:     err,
			}
		}
		return jsonvalue.Time(t), true, nil
	})
}

func parseDate(v jsonvalue.Value, loc *time.Location) (time.Time, error) {
	switch v.Kind() {
	case jsonvalue.KindTime:
		return v.Time(), nil
	case jsonvalue.KindString:
		return cast.ToTimeInDefaultLocationE(v.Str(), loc)
	case jsonvalue.KindNumber:
		// Unix seconds.
		n, err := strconv.ParseInt(v.Str(), 10, 64)
		if err != nil {
			return time.Time{}, err
		}
		return cast.ToTimeInDefaultLocationE(n, loc)
	default:
		return time.Time{}, fmt.Errorf("unsupported %s value", v.Kind())
	}
}
