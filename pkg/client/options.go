package client

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
)

// PastEvents selects whether list endpoints return events that already
// happened.
type PastEvents string

const (
	// PastEventsExclude returns upcoming events only (the API default).
	PastEventsExclude PastEvents = ""

	// PastEventsInclude returns past and upcoming events.
	PastEventsInclude PastEvents = "true"

	// PastEventsOnly returns past events only.
	PastEventsOnly PastEvents = "only"
)

// ListOptions are the query options of the events and event-groups lists.
type ListOptions struct {
	PastEvents  PastEvents
	WithDetails bool
}

// Query returns the encoded query string, including the leading "?", or ""
// when no option is set.
func (o ListOptions) Query() (string, error) {
	values := url.Values{}

	switch o.PastEvents {
	case PastEventsExclude:
	case PastEventsInclude, PastEventsOnly:
		values.Set("showPastEvents", string(o.PastEvents))
	default:
		return "", &APIError{
			Kind:    KindInvalidArgument,
			Message: fmt.Sprintf("unknown showPastEvents value %q", o.PastEvents),
		}
	}

	if o.WithDetails {
		values.Set("withDetails", "true")
	}

	if len(values) == 0 {
		return "", nil
	}
	return "?" + values.Encode(), nil
}

// ParseListOptions reads list options from an incoming query, rejecting
// keys and values the API does not know.
func ParseListOptions(q url.Values) (ListOptions, error) {
	var opts ListOptions

	var unknown []string
	for key := range q {
		if key != "showPastEvents" && key != "withDetails" {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return opts, &APIError{
			Kind:    KindInvalidArgument,
			Message: fmt.Sprintf("unrecognized option %q", unknown[0]),
		}
	}

	switch v := q.Get("showPastEvents"); v {
	case "", "false":
		opts.PastEvents = PastEventsExclude
	case "true":
		opts.PastEvents = PastEventsInclude
	case "only":
		opts.PastEvents = PastEventsOnly
	default:
		return opts, &APIError{
			Kind:    KindInvalidArgument,
			Message: fmt.Sprintf("unknown showPastEvents value %q", v),
		}
	}

	if v := q.Get("withDetails"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, &APIError{
				Kind:    KindInvalidArgument,
				Message: fmt.Sprintf("invalid withDetails value %q", v),
				Err:     err,
			}
		}
		opts.WithDetails = b
	}

	return opts, nil
}
