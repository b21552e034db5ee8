package eval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kolkov/nawk/internal/ast"
	"github.com/kolkov/nawk/internal/types"
)

// daysInMonth holds the Gregorian month lengths for a non-leap year.
var daysInMonth = [12]int64{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func isLeapYear(year int64) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

func daysInYear(year int64) int64 {
	if isLeapYear(year) {
		return 366
	}
	return 365
}

// gregorianToEpoch converts a calendar date/time to UTC epoch seconds by
// hand-rolled day counting rather than time.Date, so mktime's round trip
// with breakdownTime is exact and out-of-range components pass through
// arithmetically instead of being normalized.
func gregorianToEpoch(year, month, day, hour, min, sec int64) int64 {
	var days int64
	for y := int64(1970); y < year; y++ {
		days += daysInYear(y)
	}
	for y := year; y < 1970; y++ {
		days -= daysInYear(y)
	}

	for m := int64(1); m < month; m++ {
		idx := m - 1
		if idx >= 0 && idx < 12 {
			days += daysInMonth[idx]
			if m == 2 && isLeapYear(year) {
				days++
			}
		}
	}

	days += day - 1
	return days*86400 + hour*3600 + min*60 + sec
}

// breakdownTime decomposes epoch seconds into UTC calendar components:
// year, month (1-12), day (1-31), hour, min, sec, weekday (0=Sunday),
// and day-of-year (1-based).
func breakdownTime(secs int64) (year, month, day, hour, min, sec, wday, yday int64) {
	sec = secs % 60
	min = (secs / 60) % 60
	hour = (secs / 3600) % 24
	days := secs / 86400

	wday = ((days+4)%7 + 7) % 7

	year = 1970
	for {
		dy := daysInYear(year)
		if days >= dy {
			days -= dy
			year++
		} else if days < 0 {
			year--
			days += daysInYear(year)
		} else {
			break
		}
	}
	yday = days + 1

	month = 1
	for m, dim := range daysInMonth {
		d := dim
		if m == 1 && isLeapYear(year) {
			d++
		}
		if days < d {
			month = int64(m) + 1
			break
		}
		days -= d
	}
	day = days + 1
	return
}

// builtinMktime implements mktime("YYYY MM DD HH MM SS [DST]"): parses the
// space-separated date spec and returns UTC epoch seconds, or -1 when fewer
// than six fields are present.
func (it *Interp) builtinMktime(args []ast.Expr) types.Value {
	spec := it.evalExpr(args[0]).AsStr(it.convfmt)
	fields := strings.Fields(spec)

	var parts []int64
	for _, f := range fields {
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			break
		}
		parts = append(parts, n)
	}
	if len(parts) < 6 {
		return types.Num(-1)
	}

	epoch := gregorianToEpoch(parts[0], parts[1], parts[2], parts[3], parts[4], parts[5])
	return types.Num(float64(epoch))
}

var strftimeWeekdayAbbr = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
var strftimeWeekdayFull = [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
var strftimeMonthAbbr = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
var strftimeMonthFull = [...]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}

// builtinStrftime implements strftime([format[, timestamp]]), formatting
// UTC epoch seconds (current time by default). Supported conversions:
// %Y %y %m %d %e %H %M %S %a %A %b %B %h %j %u %w %Z %z %% %n %t.
func (it *Interp) builtinStrftime(args []ast.Expr) types.Value {
	format := "%a %b %e %H:%M:%S UTC %Y"
	if len(args) > 0 {
		format = it.evalExpr(args[0]).AsStr(it.convfmt)
	}
	timestamp := it.systimeSecs()
	if len(args) > 1 {
		timestamp = int64(it.evalExpr(args[1]).AsNum())
	}
	return types.Str(formatStrftime(format, timestamp))
}

func formatStrftime(format string, timestamp int64) string {
	year, month, day, hour, min, sec, wday, yday := breakdownTime(timestamp)

	var b strings.Builder
	runes := []rune(format)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '%' || i+1 >= len(runes) {
			b.WriteRune(runes[i])
			continue
		}
		i++
		switch runes[i] {
		case 'Y':
			fmt.Fprintf(&b, "%04d", year)
		case 'y':
			fmt.Fprintf(&b, "%02d", year%100)
		case 'm':
			fmt.Fprintf(&b, "%02d", month)
		case 'd':
			fmt.Fprintf(&b, "%02d", day)
		case 'e':
			fmt.Fprintf(&b, "%2d", day)
		case 'H':
			fmt.Fprintf(&b, "%02d", hour)
		case 'M':
			fmt.Fprintf(&b, "%02d", min)
		case 'S':
			fmt.Fprintf(&b, "%02d", sec)
		case 'a':
			b.WriteString(strftimeWeekdayAbbr[wday])
		case 'A':
			b.WriteString(strftimeWeekdayFull[wday])
		case 'b', 'h':
			b.WriteString(strftimeMonthAbbr[month-1])
		case 'B':
			b.WriteString(strftimeMonthFull[month-1])
		case 'j':
			fmt.Fprintf(&b, "%03d", yday)
		case 'u':
			if wday == 0 {
				b.WriteString("7")
			} else {
				fmt.Fprintf(&b, "%d", wday)
			}
		case 'w':
			fmt.Fprintf(&b, "%d", wday)
		case 'Z':
			b.WriteString("UTC")
		case 'z':
			b.WriteString("+0000")
		case '%':
			b.WriteByte('%')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte('%')
			b.WriteRune(runes[i])
		}
	}
	return b.String()
}
