package domain

import "time"

// Schedule 一週 7 天、每天 24 小時的營業格。
// [0] 是星期日，對齊 time.Weekday。
type Schedule [7][24]bool

// EmptySchedule 全部關閉的時間表
func EmptySchedule() Schedule {
	return Schedule{}
}

// SetHour 設定單格
func (s *Schedule) SetHour(day time.Weekday, hour int, open bool) {
	if hour < 0 || hour > 23 {
		return
	}
	s[day][hour] = open
}

// SetAllDay 整天開啟或關閉
func (s *Schedule) SetAllDay(day time.Weekday, open bool) {
	for h := 0; h < 24; h++ {
		s[day][h] = open
	}
}

// CopyDay 把某天的設定複製到另一天
func (s *Schedule) CopyDay(from, to time.Weekday) {
	s[to] = s[from]
}

// IsOpenAt 該時間點是否營業
func (s Schedule) IsOpenAt(t time.Time) bool {
	return s[t.Weekday()][t.Hour()]
}

// OpenHours 一週總開放小時數
func (s Schedule) OpenHours() int {
	count := 0
	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			if s[d][h] {
				count++
			}
		}
	}
	return count
}
