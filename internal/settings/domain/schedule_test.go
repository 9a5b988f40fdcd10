package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 測試整天開關與單格設定
func TestSchedule_SetAllDay(t *testing.T) {
	s := EmptySchedule()
	assert.Equal(t, 0, s.OpenHours())

	s.SetAllDay(time.Monday, true)
	assert.Equal(t, 24, s.OpenHours())

	s.SetHour(time.Monday, 3, false)
	assert.Equal(t, 23, s.OpenHours())

	// 超出範圍的小時被忽略
	s.SetHour(time.Monday, 24, true)
	s.SetHour(time.Monday, -1, true)
	assert.Equal(t, 23, s.OpenHours())
}

// 測試複製某天設定
func TestSchedule_CopyDay(t *testing.T) {
	s := EmptySchedule()
	for h := 9; h < 18; h++ {
		s.SetHour(time.Monday, h, true)
	}

	s.CopyDay(time.Monday, time.Tuesday)

	assert.Equal(t, 18, s.OpenHours())
	assert.True(t, s[time.Tuesday][9])
	assert.False(t, s[time.Tuesday][8])
}

// 測試依時間點判斷營業
func TestSchedule_IsOpenAt(t *testing.T) {
	s := EmptySchedule()
	for h := 9; h < 18; h++ {
		s.SetHour(time.Monday, h, true)
	}

	// 2025-06-02 是星期一
	monday10 := time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)
	monday20 := time.Date(2025, 6, 2, 20, 0, 0, 0, time.UTC)
	sunday10 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	assert.True(t, s.IsOpenAt(monday10))
	assert.False(t, s.IsOpenAt(monday20))
	assert.False(t, s.IsOpenAt(sunday10))
}
