package menu

import (
	"bufio"
	"io"
	"strings"

	"github.com/hyprpal/minhypr/internal/store"
)

const (
	fieldSep  = "\x1f"
	infoKey   = "info"
	optionSep = "\x00"
)

// WriteFeed prints one rofi script-mode row per record. The row icon is the
// preview thumbnail when one exists and the window class otherwise; the
// address rides along in the info field. An empty list shows a message
// instead of rows.
func WriteFeed(w io.Writer, records store.Records) error {
	bw := bufio.NewWriter(w)
	if len(records) == 0 {
		bw.WriteString(optionSep + "message" + fieldSep + "No minimized windows\n")
	}
	for _, r := range records {
		icon := r.PreviewPath
		if icon == "" {
			icon = r.Class
		}
		bw.WriteString(sanitize(r.DisplayLabel))
		bw.WriteString(optionSep + "icon" + fieldSep + icon)
		bw.WriteString(fieldSep + infoKey + fieldSep + r.Address)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func sanitize(label string) string {
	return strings.NewReplacer("\n", " ", "\x00", "", fieldSep, " ").Replace(label)
}

// SelectionAddress resolves the address rofi hands back on selection. rofi
// exports the info field as ROFI_INFO; older versions only pass the row text,
// in which case the text after the last "info" marker is used.
func SelectionAddress(selection, rofiInfo string) string {
	if info := strings.TrimSpace(rofiInfo); info != "" {
		return info
	}
	idx := strings.LastIndex(selection, infoKey)
	if idx < 0 {
		return ""
	}
	rest := selection[idx+len(infoKey):]
	return strings.TrimSpace(strings.Trim(rest, fieldSep+optionSep))
}

// Labels returns the display labels in record order.
func Labels(records store.Records) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, sanitize(r.DisplayLabel))
	}
	return out
}
