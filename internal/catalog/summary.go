package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

const reportWidth = 80

// Summary provides a high-level summary of a catalog scan.
type Summary struct {
	Entries    []Entry       `json:"entries"`
	TotalFiles int           `json:"total_files"`
	Readable   int           `json:"readable"`
	Failed     int           `json:"failed"`
	TotalBytes int64         `json:"total_bytes"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
}

// GenerateSummary tallies a scan result.
func GenerateSummary(result Result) Summary {
	s := Summary{
		Entries:   result.Entries,
		StartedAt: result.StartedAt,
		Duration:  result.Duration,
	}
	if s.Entries == nil {
		s.Entries = []Entry{}
	}
	for _, e := range result.Entries {
		s.TotalFiles++
		s.TotalBytes += e.Size
		if e.Error != nil {
			s.Failed++
		} else {
			s.Readable++
		}
	}
	return s
}

// PrintSummary writes the summary to w, as indented JSON when jsonOutput is
// set and as a table otherwise.
func PrintSummary(w io.Writer, summary Summary, jsonOutput bool) error {
	if jsonOutput {
		output, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(output))
		return err
	}

	fmt.Fprintln(w, strings.Repeat("=", reportWidth))
	fmt.Fprintln(w, "FITSVIEW CATALOG")
	fmt.Fprintln(w, strings.Repeat("=", reportWidth))
	fmt.Fprintf(w, "Scan Time: %s\n", summary.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Found: %d files, %d readable, %d failed, %s (duration: %s)\n",
		summary.TotalFiles, summary.Readable, summary.Failed,
		HumanBytes(summary.TotalBytes), HumanDuration(summary.Duration))

	if summary.TotalFiles == 0 {
		fmt.Fprintln(w, "\nNo FITS files found.")
		fmt.Fprintln(w, strings.Repeat("=", reportWidth))
		return nil
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tSIZE\tSHAPE\tUNIT\tTELESCOPE\tDATE")
	for _, e := range summary.Entries {
		if e.Error != nil {
			fmt.Fprintf(tw, "%s\t%s\terror: %s\t\t\t\n", e.Path, HumanBytes(e.Size), e.Error.Message)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%s\t%s\t%s\n",
			e.Path, HumanBytes(e.Size), e.Width, e.Height,
			orUnknown(e.Unit), orUnknown(e.Telescope), orUnknown(e.Date))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w, strings.Repeat("=", reportWidth))
	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// HumanBytes returns a compact size string such as 512B, 1.5KiB or 2.0MiB.
func HumanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// HumanDuration returns a compact, human-readable duration string.
// Examples: 850ms, 1.23s, 2m05s, 1h02m.
func HumanDuration(d time.Duration) string {
	if d < time.Millisecond {
		us := d / time.Microsecond
		return fmt.Sprintf("%dµs", us)
	}
	if d < time.Second {
		ms := d / time.Millisecond
		return fmt.Sprintf("%dms", ms)
	}
	if d < time.Minute {
		secs := float64(d) / float64(time.Second)
		return fmt.Sprintf("%.2fs", secs)
	}
	if d < time.Hour {
		m := d / time.Minute
		s := (d % time.Minute) / time.Second
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	return fmt.Sprintf("%dh%02dm", h, m)
}
