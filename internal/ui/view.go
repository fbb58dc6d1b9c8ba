package ui

import (
	"fmt"
	"strings"

	"tubegrab/internal/session"
)

func (m Model) View() string {
	snap := m.ctrl.Snapshot()

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")
	b.WriteString(m.styles.Box.Render(m.input.View()))
	b.WriteString("\n")

	if body := m.viewBody(snap); body != "" {
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.viewHelp(snap))
	return b.String()
}

func (m Model) viewHeader() string {
	title := m.styles.Title.Render("tubegrab")
	sub := m.styles.Subtitle.Render("server: " + m.opts.ServerURL)
	return title + "\n" + sub
}

func (m Model) viewBody(snap session.Snapshot) string {
	if snap.PreviewLoading {
		return m.styles.Box.Render(m.spin.View() + " " + m.styles.Faint.Render("Fetching video details"))
	}

	var sections []string
	if snap.Preview != nil {
		sections = append(sections, m.viewPreview(snap))
	}
	if snap.Job != nil {
		sections = append(sections, m.viewJob(snap))
	}
	return strings.Join(sections, "\n")
}

func (m Model) viewPreview(snap session.Snapshot) string {
	p := snap.Preview

	var b strings.Builder
	b.WriteString(m.styles.Header.Render(truncate(p.Title, 72)))
	b.WriteString("\n")
	if p.Artist != "" {
		b.WriteString(m.styles.Label.Render("by ") + m.styles.Value.Render(p.Artist))
		b.WriteString("\n")
	}
	if p.ThumbnailURL != "" {
		b.WriteString(m.styles.Faint.Render(truncate(p.ThumbnailURL, 72)))
		b.WriteString("\n")
	}

	if m.menuOpen {
		b.WriteString("\n")
		b.WriteString(m.styles.Label.Render("quality:"))
		b.WriteString("\n")
		for i, f := range p.Formats {
			cursor := "  "
			item := m.styles.MenuItem.Render(f)
			if i == m.menuIndex {
				cursor = m.styles.MenuCursor.Render("> ")
				item = m.styles.MenuCursor.Render(f)
			}
			b.WriteString(cursor + item + "\n")
		}
	} else if snap.SelectedFormat != "" {
		b.WriteString(m.styles.Label.Render("quality: ") + m.styles.Value.Render(snap.SelectedFormat))
		b.WriteString("\n")
	}
	return m.styles.Box.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) viewJob(snap session.Snapshot) string {
	job := snap.Job

	var b strings.Builder
	switch job.State {
	case session.JobCompleted:
		b.WriteString(m.styles.Success.Render("✓ done"))
		b.WriteString("\n")
		b.WriteString(m.styles.Link.Render(m.client.ArtifactURL(job.DownloadRef)))
	case session.JobFailed:
		b.WriteString(m.styles.Error.Render("✗ " + job.ErrMessage))
	case session.JobQueued:
		b.WriteString(m.spin.View() + " " + m.styles.Faint.Render("submitting"))
	default:
		pct := job.Progress
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		b.WriteString(fmt.Sprintf("%s %3d%%  %s",
			m.bar.ViewAs(float64(pct)/100.0), pct, m.styles.Faint.Render(string(job.State))))
	}
	return m.styles.Box.Render(b.String())
}

func (m Model) viewHelp(snap session.Snapshot) string {
	hints := []string{"enter: fetch"}
	if snap.Preview != nil {
		hints = []string{"ctrl+d: video", "ctrl+a: audio"}
		if len(snap.Preview.Formats) > 0 {
			hints = append(hints, "ctrl+f: quality")
		}
	}
	hints = append(hints, "esc: quit")
	return m.styles.Faint.Render(strings.Join(hints, "  "))
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
