// Package format 提供导出与摘要共用的本地化格式。
package format

import (
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency 为薪资前缀。
const Currency = "₹"

var printer = message.NewPrinter(language.English)

// Amount 按千分位格式化金额，小数部分四舍五入。
func Amount(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}

// Money 返回带货币符号的金额。
func Money(v float64) string {
	return Currency + Amount(v)
}

// SalaryRange 返回 "₹a - ₹b"。
func SalaryRange(from, to float64) string {
	return Money(from) + " - " + Money(to)
}

// Date 返回 M/D/YYYY，零值返回空串。
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("1/2/2006")
}

// DateTime 返回 M/D/YYYY, h:mm:ss PM。
func DateTime(t time.Time) string {
	return t.Local().Format("1/2/2006, 3:04:05 PM")
}

// FileDate 返回文件名使用的 YYYY-MM-DD（UTC）。
func FileDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
