package notify

import (
	"fmt"
	"html"
	"strings"
	"time"

	"jobalert/internal/domain"
)

const dateLayout = "02 Jan 2006"

var rule = strings.Repeat("─", 30)

// Render is the fixed block for one posting, HTML-escaped.
func Render(p domain.Posting) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💼 <b>%s</b>\n", html.EscapeString(p.Title))
	fmt.Fprintf(&b, "🏢 %s\n", html.EscapeString(p.Company))
	fmt.Fprintf(&b, "📍 %s\n", html.EscapeString(p.Location))
	fmt.Fprintf(&b, "🌐 %s\n", html.EscapeString(string(p.Source)))
	if len(p.Tags) > 0 {
		fmt.Fprintf(&b, "🏷 %s\n", html.EscapeString(strings.Join(p.Tags, ", ")))
	}
	fmt.Fprintf(&b, "🔗 <a href='%s'>Apply Now</a>\n\n", html.EscapeString(p.URL))
	return b.String()
}

func header(day time.Time, total int) string {
	noun := "jobs"
	if total == 1 {
		noun = "job"
	}
	return fmt.Sprintf("🚀 <b>Job Alert — %s</b>\nFound <b>%d new %s</b> matching your profile\n%s\n\n",
		day.Format(dateLayout), total, noun, rule)
}

func continuedHeader(day time.Time) string {
	return fmt.Sprintf("🚀 <b>Job Alert — %s (cont.)</b>\n\n", day.Format(dateLayout))
}

func closing(more int, signOff string) string {
	var b strings.Builder
	if more > 0 {
		fmt.Fprintf(&b, "... and %d more next run.\n", more)
	}
	if signOff != "" {
		fmt.Fprintf(&b, "\n%s", html.EscapeString(signOff))
	}
	return b.String()
}

func noResults(day time.Time) string {
	return fmt.Sprintf("📭 <b>Job Alert — %s</b>\n\n"+
		"No new jobs found today matching your profile.\n"+
		"Keep your applications going — new listings appear daily!", day.Format(dateLayout))
}
