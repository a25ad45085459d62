package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hhmmss string) time.Time {
	ts, err := time.Parse("2006-01-02 15:04:05", "2024-03-01 "+hhmmss)
	if err != nil {
		panic(err)
	}
	return ts
}

func TestComputeFee(t *testing.T) {
	tests := []struct {
		name    string
		entry   time.Time
		exit    time.Time
		wantFee int64
	}{
		{"within grace period", at("10:00:00"), at("10:10:00"), 0},
		{"exactly at grace boundary", at("10:00:00"), at("10:15:00"), 0},
		{"twenty minutes", at("10:00:00"), at("10:20:00"), 2000},
		{"just past grace", at("10:00:00"), at("10:15:30"), 1550},
		{"long stay", at("08:00:00"), at("12:00:00"), 24000},
		{"exit before entry clamps to zero", at("10:00:00"), at("09:00:00"), 0},
	}

	now := func() time.Time { return at("23:00:00") }

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, exitUsed := ComputeFee(tt.entry, tt.exit, now)
			assert.Equal(t, tt.wantFee, fee)
			assert.Equal(t, tt.exit, exitUsed)
		})
	}
}

func TestComputeFeeZeroExitUsesNow(t *testing.T) {
	current := at("10:20:00")
	fee, exitUsed := ComputeFee(at("10:00:00"), time.Time{}, func() time.Time { return current })

	assert.Equal(t, int64(2000), fee)
	assert.Equal(t, current, exitUsed)
}
