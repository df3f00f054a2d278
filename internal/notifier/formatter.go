package notifier

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"LevelSentinel/internal/model"
)

var trendIcon = map[model.TrendLabel]string{
	model.TrendBullish:       "🟢",
	model.TrendBearish:       "🔴",
	model.TrendIndeterminate: "⚪",
}

func formatPrices(p *message.Printer, levels []float64) string {
	if len(levels) == 0 {
		return "none"
	}
	parts := make([]string, len(levels))
	for i, lvl := range levels {
		parts[i] = p.Sprintf("%.2f", lvl)
	}
	return strings.Join(parts, ", ")
}

// FormatLevelReport formats a level report into a Telegram HTML message.
func FormatLevelReport(report *model.LevelReport) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s levels</b> | %s\n", html.EscapeString(report.Symbol), report.GeneratedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Window: %s → %s\n\n", report.Start.Format("2006-01-02"), report.End.Format("2006-01-02")))

	b.WriteString("📈 <b>Timeframes:</b>\n")
	for _, tf := range report.Timeframes {
		b.WriteString(fmt.Sprintf("  %s %s (%d bars): %s\n", trendIcon[tf.Trend], tf.Interval, tf.Bars, formatPrices(p, tf.Levels)))
	}

	b.WriteString(fmt.Sprintf("\n✅ <b>Validated</b> (±%.2f): %s\n", report.Tolerance, formatPrices(p, report.Validated)))
	return b.String()
}

// FormatError formats an analysis failure for a symbol.
func FormatError(symbol string, err error) string {
	return fmt.Sprintf("⚠️ <b>%s</b>: %s", html.EscapeString(symbol), html.EscapeString(err.Error()))
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	return "<b>Commands</b>\n" +
		"/levels SYMBOL - analyze a symbol now\n" +
		"/watch - run the watchlist report now\n" +
		"/help - show this message"
}

// RenderTable writes the report as a plain-text table, one row per level.
func RenderTable(w io.Writer, report *model.LevelReport) {
	p := message.NewPrinter(language.English)
	validated := make(map[float64]bool, len(report.Validated))
	for _, lvl := range report.Validated {
		validated[lvl] = true
	}

	fmt.Fprintf(w, "%s %s → %s\n", report.Symbol, report.Start.Format("2006-01-02"), report.End.Format("2006-01-02"))

	trends := tablewriter.NewWriter(w)
	trends.SetHeader([]string{"Interval", "Bars", "Levels", "Trend"})
	trends.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, tf := range report.Timeframes {
		trends.Append([]string{string(tf.Interval), fmt.Sprintf("%d", tf.Bars), fmt.Sprintf("%d", len(tf.Levels)), string(tf.Trend)})
	}
	trends.Render()

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Level", "Validated"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	if base := report.Base(); base != nil {
		for _, lvl := range base.Levels {
			mark := ""
			if validated[lvl] {
				mark = "yes"
			}
			table.Append([]string{p.Sprintf("%.2f", lvl), mark})
		}
	}
	table.Render()
}
