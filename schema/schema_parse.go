package schema

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrMissingID is returned when a raw record carries no usable identifier.
	ErrMissingID = errors.New("missing model identifier")

	// ErrInvalidField is returned when a raw field has the wrong shape.
	ErrInvalidField = errors.New("invalid field")

	// ErrOutOfRange is returned when a typed record violates a value bound.
	ErrOutOfRange = errors.New("value out of range")
)

// NewModelRecord returns a record with the documented defaults applied.
func NewModelRecord(id string, now time.Time) ModelRecord {
	return ModelRecord{
		ModelID:   id,
		IsActive:  true,
		CreatedAt: now.UTC(),
	}
}

// ParseModelRecord converts one raw hub entry into a typed model and its tags.
// Missing optional fields keep their defaults and unknown fields are ignored.
func ParseModelRecord(raw RawRecord, now time.Time) (ModelRecord, []ModelTag, error) {
	id, ok := raw.ID()
	if !ok {
		return ModelRecord{}, nil, ErrMissingID
	}
	m := NewModelRecord(id, now)

	m.PipelineTag = raw.String("pipeline_tag")
	m.LibraryName = raw.String("library_name")
	m.Author = raw.String("author")
	if m.Author == nil {
		if org, _, found := strings.Cut(id, "/"); found && org != "" {
			m.Author = &org
		}
	}

	for _, field := range []struct {
		key string
		dst *int64
	}{
		{"downloads", &m.Downloads},
		{"likes", &m.Likes},
	} {
		v, ok := raw.Int(field.key)
		if !ok || v < 0 {
			return ModelRecord{}, nil, fmt.Errorf("%w: %s=%v for %s", ErrInvalidField, field.key, raw[field.key], id)
		}
		*field.dst = v
	}

	m.Private = raw.Bool("private")
	m.IsActive = !raw.Bool("disabled")

	lastModKey := "lastModified"
	if _, present := raw[lastModKey]; !present {
		lastModKey = "last_modified"
	}
	lastMod, ok := raw.Time(lastModKey)
	if !ok {
		return ModelRecord{}, nil, fmt.Errorf("%w: %s=%v for %s", ErrInvalidField, lastModKey, raw[lastModKey], id)
	}
	m.LastModified = lastMod

	if created, ok := raw.Time("createdAt"); ok && created != nil {
		m.CreatedAt = *created
	}

	seen := make(map[string]struct{})
	var tags []ModelTag
	for _, tag := range raw.Strings("tags") {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, ModelTag{ModelID: id, Tag: tag})
	}

	return m, tags, nil
}

// NewSnapshot copies the metrics of a model into a snapshot for the UTC date of day.
func NewSnapshot(m ModelRecord, day time.Time) ModelSnapshot {
	return ModelSnapshot{
		ModelID:      m.ModelID,
		SnapshotDate: TruncateDay(day),
		PipelineTag:  m.PipelineTag,
		Downloads:    m.Downloads,
		Likes:        m.Likes,
		IsActive:     m.IsActive,
	}
}

// TruncateDay returns midnight UTC of the given instant.
func TruncateDay(t time.Time) time.Time {
	y, mo, d := t.UTC().Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}
