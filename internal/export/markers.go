package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/maauso/recut/internal/edit"
)

// MarkerFormat selects the marker file layout.
type MarkerFormat string

// Marker formats.
const (
	// MarkersCSV is "start,end,label,reason" with a header row.
	MarkersCSV MarkerFormat = "csv"
	// MarkersAudacity is a tab-separated label track.
	MarkersAudacity MarkerFormat = "audacity"
)

var (
	csvText      = strings.NewReplacer(",", ";", "\r\n", " ", "\n", " ", "\r", " ", `"`, "'")
	audacityText = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")
)

// WriteMarkers writes one row per removed interval.
func WriteMarkers(w io.Writer, report *edit.EditReport, format MarkerFormat) error {
	bw := bufio.NewWriter(w)

	switch format {
	case MarkersCSV:
		fmt.Fprintln(bw, "start,end,label,reason")
		for _, e := range report.Edits {
			text := csvText.Replace(norm.NFC.String(e.Text))
			fmt.Fprintf(bw, "%.3f,%.3f,\"%s\",%s\n", e.OriginalStart, e.OriginalEnd, text, e.Reason)
		}
	case MarkersAudacity:
		for _, e := range report.Edits {
			text := audacityText.Replace(norm.NFC.String(e.Text))
			fmt.Fprintf(bw, "%.6f\t%.6f\t[%s] %s\n", e.OriginalStart, e.OriginalEnd, e.Reason, text)
		}
	default:
		return fmt.Errorf("%w: marker format %q", ErrUnknownFormat, format)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: markers: %w", ErrSerialization, err)
	}
	return nil
}
