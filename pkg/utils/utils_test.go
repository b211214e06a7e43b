package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGoSafeRecoversPanic(t *testing.T) {
	done := make(chan struct{})
	GoSafe(func() {
		defer close(done)
		panic("boom")
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("goroutine did not finish")
	}
}

func TestToPointer(t *testing.T) {
	p := ToPointer(true)
	assert.True(t, *p)
}

func TestLocationOrUTC(t *testing.T) {
	assert.Equal(t, time.UTC, LocationOrUTC("Not/AZone"))
	assert.Equal(t, time.UTC, LocationOrUTC(""))
	assert.Equal(t, "Asia/Jakarta", LocationOrUTC("Asia/Jakarta").String())
}

func TestPrettyDate(t *testing.T) {
	ts := time.Date(2024, 3, 4, 13, 5, 0, 0, time.UTC)
	assert.Equal(t, "Mon, 04 Mar 2024 13:05 UTC", PrettyDate(ts))
}
