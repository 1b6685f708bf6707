package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	cases := map[string]StatusClass{
		"Running":             StatusActive,
		"fetching":            StatusActive,
		"Error while running": StatusActive,
		"Fetched":             StatusDone,
		"COMPLETE":            StatusDone,
		"failed":              StatusFailed,
		"error":               StatusFailed,
		"idle":                StatusOther,
		"":                    StatusOther,
	}
	for in, want := range cases {
		assert.Equal(t, want, ClassifyStatus(in), in)
	}
}
